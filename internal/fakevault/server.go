// Package fakevault provides a fake platform endpoint for testing.
// It speaks the XML request envelope over HTTP, issues session tokens
// with configurable lifetimes, and keeps things in memory, so tests
// can exercise the full request path including credential refresh and
// session-expiry retries.
package fakevault

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/internal/xmlutil"
	"github.com/carevault/carevault.go/pkg/constants"
)

// Server is a fake platform endpoint. Zero configuration is required:
// New starts it listening and Close shuts it down.
type Server struct {
	httpSrv *httptest.Server

	mu        sync.Mutex
	authCalls int
	authDelay time.Duration
	tokenTTL  time.Duration
	sessions  map[string]time.Time
	records   map[uuid.UUID]*record
	denied    map[uuid.UUID]bool

	personID   uuid.UUID
	personName string
}

type record struct {
	order  []uuid.UUID
	things map[uuid.UUID]*storedThing
}

type storedThing struct {
	key     [2]uuid.UUID // id, version stamp
	typeID  uuid.UUID
	payload *xmlutil.Node
}

func New() *Server {
	s := &Server{
		tokenTTL:   time.Hour,
		sessions:   map[string]time.Time{},
		records:    map[uuid.UUID]*record{},
		denied:     map[uuid.UUID]bool{},
		personID:   uuid.New(),
		personName: "Test Person",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/platform", s.handlePlatform)
	s.httpSrv = httptest.NewServer(mux)
	return s
}

func (s *Server) URL() string { return s.httpSrv.URL }

func (s *Server) Close() { s.httpSrv.Close() }

// AuthCalls reports how many CreateAuthenticatedSessionToken requests
// the server has handled.
func (s *Server) AuthCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authCalls
}

// SetAuthDelay makes every auth request take at least d, widening the
// window for concurrent refresh races.
func (s *Server) SetAuthDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authDelay = d
}

// SetTokenTTL controls the lifetime of tokens issued from now on.
func (s *Server) SetTokenTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = ttl
}

// ExpireSessions invalidates every issued token, so the next request
// using one is answered with a session-expired status.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tok := range s.sessions {
		s.sessions[tok] = time.Now().Add(-time.Minute)
	}
}

// DenyRecord makes every record-bound request for recordID fail with
// an access-denied status.
func (s *Server) DenyRecord(recordID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denied[recordID] = true
}

// PersonID returns the identity GetPersonInfo answers with.
func (s *Server) PersonID() uuid.UUID { return s.personID }

func (s *Server) handlePlatform(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req, err := xmlutil.Parse(body)
	if err != nil || req.Name != "request" {
		s.respond(w, constants.StatusInvalidXML, "malformed request envelope", "")
		return
	}
	header := req.Child("header")
	if header == nil {
		s.respond(w, constants.StatusInvalidXML, "missing header", "")
		return
	}
	method, _ := header.ChildText("method")
	info := req.Child("info")

	if method == "CreateAuthenticatedSessionToken" {
		s.handleAuth(w, info)
		return
	}

	if !s.sessionValid(header) {
		s.respond(w, constants.StatusSessionExpired, "session token expired", "")
		return
	}

	var recordID uuid.UUID
	if text, ok := header.ChildText("record-id"); ok {
		if recordID, err = uuid.Parse(text); err != nil {
			s.respond(w, constants.StatusInvalidXML, "malformed record id", "")
			return
		}
	}
	s.mu.Lock()
	deny := s.denied[recordID]
	s.mu.Unlock()
	if deny {
		s.respond(w, constants.StatusAccessDenied, "access denied", "")
		return
	}

	switch method {
	case "GetThings":
		s.handleGetThings(w, recordID, info)
	case "PutThings":
		s.handlePutThings(w, recordID, info)
	case "RemoveThings":
		s.handleRemoveThings(w, recordID, info)
	case "GetPersonInfo":
		s.handleGetPersonInfo(w)
	default:
		s.respond(w, constants.StatusBadMethod, fmt.Sprintf("unknown method %q", method), "")
	}
}

func (s *Server) handleAuth(w http.ResponseWriter, info *xmlutil.Node) {
	s.mu.Lock()
	s.authCalls++
	delay := s.authDelay
	token := fmt.Sprintf("session-%d", s.authCalls)
	expires := time.Now().Add(s.tokenTTL)
	s.sessions[token] = expires
	s.mu.Unlock()

	if info == nil || info.Child("auth-info") == nil {
		s.respond(w, constants.StatusInvalidXML, "missing auth-info", "")
		return
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	s.respond(w, constants.StatusOK, "",
		fmt.Sprintf(`<token expires="%s">%s</token>`, expires.UTC().Format(time.RFC3339), token))
}

func (s *Server) sessionValid(header *xmlutil.Node) bool {
	session := header.Child("auth-session")
	if session == nil {
		return false
	}
	token, ok := session.ChildText("auth-token")
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expires, ok := s.sessions[token]
	return ok && time.Now().Before(expires)
}

func (s *Server) handleGetThings(w http.ResponseWriter, recordID uuid.UUID, info *xmlutil.Node) {
	filter := info.Child("get-things")
	if filter == nil {
		s.respond(w, constants.StatusInvalidXML, "missing get-things filter", "")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[recordID]
	if rec == nil {
		s.respond(w, constants.StatusOK, "", "")
		return
	}

	var out strings.Builder
	match := func(st *storedThing) bool {
		if text, ok := filter.ChildText("thing-id"); ok {
			return st.key[0].String() == text
		}
		if text, ok := filter.ChildText("type-id"); ok {
			return st.typeID.String() == text
		}
		return true
	}
	for _, id := range rec.order {
		st := rec.things[id]
		if st == nil || !match(st) {
			continue
		}
		fmt.Fprintf(&out,
			`<thing><thing-id version-stamp="%s">%s</thing-id><type-id>%s</type-id><flags>0</flags><data-xml>%s</data-xml></thing>`,
			st.key[1], st.key[0], st.typeID, st.payload.String())
	}
	s.respond(w, constants.StatusOK, "", out.String())
}

func (s *Server) handlePutThings(w http.ResponseWriter, recordID uuid.UUID, info *xmlutil.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[recordID]
	if rec == nil {
		rec = &record{things: map[uuid.UUID]*storedThing{}}
		s.records[recordID] = rec
	}

	var out strings.Builder
	for _, tn := range info.ChildrenNamed("thing") {
		typeText, ok := tn.ChildText("type-id")
		if !ok {
			s.respond(w, constants.StatusInvalidXML, "thing missing type-id", "")
			return
		}
		typeID, err := uuid.Parse(typeText)
		if err != nil {
			s.respond(w, constants.StatusInvalidXML, "malformed type-id", "")
			return
		}
		data := tn.Child("data-xml")
		if data == nil || len(data.Nodes) == 0 {
			s.respond(w, constants.StatusInvalidXML, "thing missing data-xml", "")
			return
		}

		id := uuid.New()
		if idNode := tn.Child("thing-id"); idNode != nil {
			if existing, err := uuid.Parse(idNode.Text()); err == nil {
				id = existing
			}
		}
		st := &storedThing{
			key:     [2]uuid.UUID{id, uuid.New()},
			typeID:  typeID,
			payload: data.Nodes[0],
		}
		if _, known := rec.things[id]; !known {
			rec.order = append(rec.order, id)
		}
		rec.things[id] = st
		fmt.Fprintf(&out, `<thing-id version-stamp="%s">%s</thing-id>`, st.key[1], st.key[0])
	}
	s.respond(w, constants.StatusOK, "", out.String())
}

func (s *Server) handleRemoveThings(w http.ResponseWriter, recordID uuid.UUID, info *xmlutil.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[recordID]
	if rec != nil {
		for _, idNode := range info.ChildrenNamed("thing-id") {
			if id, err := uuid.Parse(idNode.Text()); err == nil {
				delete(rec.things, id)
			}
		}
	}
	s.respond(w, constants.StatusOK, "", "")
}

func (s *Server) handleGetPersonInfo(w http.ResponseWriter) {
	s.respond(w, constants.StatusOK, "",
		fmt.Sprintf(`<person-info><person-id>%s</person-id><name>%s</name></person-info>`,
			s.personID, s.personName))
}

func (s *Server) respond(w http.ResponseWriter, code int, message, info string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	var b strings.Builder
	b.WriteString("<response><status>")
	fmt.Fprintf(&b, "<code>%d</code>", code)
	if message != "" {
		fmt.Fprintf(&b, "<error><message>%s</message></error>", message)
	}
	b.WriteString("</status>")
	fmt.Fprintf(&b, "<info>%s</info>", info)
	b.WriteString("</response>")
	_, _ = io.WriteString(w, b.String())
}
