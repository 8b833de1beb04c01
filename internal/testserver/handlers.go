package testserver

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// SessionCookie is the cookie set by Login.
const SessionCookie = "sessionid"

// DocsPage is a documentation page with two handlers, an XML feed, a
// session check and an auth test link.
const DocsPage = `<!DOCTYPE html>
<html>
<head><title>API documentation</title></head>
<body>
<a class="test_link" auth_test="1" test_data='{"path":"/api/login","method":"POST","params":{"username":"demo","password":"%random_email%"}}'>Log in</a>

<div id="users_methods" class="methods" style="display:none">
  <div id="users_methods_get" class="handlerdiv" style="display:none">
    <h3>GET /api/users</h3>
    <form id="usersGET_form">
      <input name="limit" value="10">
      <input name="q" value="">
    </form>
    <input id="usersGET_url" value="/api/users">
    <div id="usersGET_response_div" style="display:none"></div>
  </div>
  <div id="users_methods_post" class="handlerdiv" style="display:none">
    <h3>POST /api/users</h3>
    <form id="usersPOST_form">
      <input name="name" value="Jane Doe">
      <input name="email" value="%random_email%">
    </form>
    <input id="usersPOST_url" value="/api/users">
    <div id="usersPOST_response_div" style="display:none"></div>
  </div>
  <div id="users_methods_put" class="handlerdiv" style="display:none">
    <h3>PUT /api/users/{id}</h3>
    <form id="usersPUT_form">
      <textarea name="body" value='{"name":"Jane"}'></textarea>
    </form>
    <input id="usersPUT_url" value="/api/users/1">
    <div id="usersPUT_response_div" style="display:none"></div>
  </div>
</div>

<div id="feed_methods" class="methods" style="display:none">
  <div id="feed_methods_get" class="handlerdiv" style="display:none">
    <h3>GET /api/feed</h3>
    <form id="feedGET_form"></form>
    <input id="feedGET_url" value="/api/feed">
    <div id="feedGET_response_div" style="display:none"></div>
  </div>
</div>

<div id="session_methods" class="methods" style="display:none">
  <div id="session_methods_get" class="handlerdiv" style="display:none">
    <h3>GET /api/session</h3>
    <form id="sessionGET_form"></form>
    <input id="sessionGET_url" value="/api/session">
    <div id="sessionGET_response_div" style="display:none"></div>
  </div>
</div>
</body>
</html>`

// EchoReply is the JSON body written by Echo.
type EchoReply struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Query       string `json:"query"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// DocsHandler serves page as HTML.
func DocsHandler(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, page)
	}
}

// Echo describes the request it received.
func Echo(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	writeJSON(w, http.StatusOK, EchoReply{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.RawQuery,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
	})
}

// Feed returns an XML document.
func Feed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml")
	io.WriteString(w, `<feed><item id="1">first</item></feed>`)
}

// Login sets the session cookie when a username is supplied.
func Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	username := r.Form.Get("username")
	if username == "" {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "username required"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "s-" + username, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]string{"user": username})
}

// Session reports the logged in user, or 401 without a session cookie.
func Session(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not logged in"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"session": c.Value})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
