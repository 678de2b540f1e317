package handler

import (
	"net/http"
	"net/url"
)

// flashCookie is the one-shot message cookie used by the redirect flows.
// The movies page reads it, renders it once, and clears it — the Go
// equivalent of Flask's flash(). Values are URL-escaped because cookie
// values can't carry spaces.
const flashCookie = "flash"

// setFlash stores a one-shot message for the next page render.
func setFlash(w http.ResponseWriter, path, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     path,
		MaxAge:   60, // survives one redirect, not a browsing session
		HttpOnly: true,
	})
}

// popFlash returns the pending flash message (if any) and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     r.URL.Path,
		MaxAge:   -1, // delete
		HttpOnly: true,
	})

	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
