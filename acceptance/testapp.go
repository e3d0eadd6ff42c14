//go:build acceptance
// +build acceptance

package acceptance

import (
	"net/http"
	"net/http/httptest"
)

const (
	validUsername = "tomsmith"
	validPassword = "SuperSecretPassword!"

	sessionCookie = "session"
)

// TestApp is a small web application the acceptance tests run against.
// It has a home page, a login form guarding a secure area and a page writing to the console.
type TestApp struct {
	Server *httptest.Server
	URL    string
}

func NewTestApp() *TestApp {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, http.StatusOK, `<!DOCTYPE html>
<html><head><title>Example Domain</title></head>
<body><h1>Example Domain</h1><p><a id="sign-in" href="/login">Sign in</a></p></body></html>`)
	})

	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, http.StatusOK, loginForm(""))
	})

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		if r.PostFormValue("username") != validUsername || r.PostFormValue("password") != validPassword {
			writeHTML(w, http.StatusUnauthorized, loginForm("Your username or password is invalid!"))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: validUsername, Path: "/", HttpOnly: true})
		http.Redirect(w, r, "/secure", http.StatusSeeOther)
	})

	mux.HandleFunc("GET /secure", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(sessionCookie); err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		writeHTML(w, http.StatusOK, `<!DOCTYPE html>
<html><head><title>Secure Area</title></head>
<body><h2>Secure Area</h2><div id="flash" class="success">You logged into a secure area!</div>
<a id="logout" href="/logout">Logout</a></body></html>`)
	})

	mux.HandleFunc("GET /logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Path: "/", MaxAge: -1})
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})

	mux.HandleFunc("GET /console", func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, http.StatusOK, `<!DOCTYPE html>
<html><head><title>Console</title></head>
<body><h1>Console</h1>
<script>
console.log("hello from the page");
console.error("something broke");
</script></body></html>`)
	})

	server := httptest.NewServer(mux)

	return &TestApp{
		Server: server,
		URL:    server.URL,
	}
}

func loginForm(flash string) string {
	html := `<!DOCTYPE html>
<html><head><title>Login Page</title></head>
<body><h2>Login Page</h2>`
	if flash != "" {
		html += `<div id="flash" class="error">` + flash + `</div>`
	}
	html += `<form method="post" action="/login">
<label for="username">Username</label><input id="username" name="username" type="text">
<label for="password">Password</label><input id="password" name="password" type="password">
<button id="login" type="submit">Login</button>
</form></body></html>`
	return html
}

func writeHTML(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(html))
}

// Close shuts down the test application.
func (ta *TestApp) Close() {
	ta.Server.Close()
}
