package connection

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/internal/rand"
	"github.com/carevault/carevault.go/internal/xmlutil"
	"github.com/carevault/carevault.go/pkg/constants"
	"github.com/carevault/carevault.go/pkg/credential"
)

// Request is one platform method invocation before it is wrapped in
// the envelope.
type Request struct {
	Method        string
	MethodVersion int
	// RecordID scopes record-bound methods; uuid.Nil omits the header
	// element for person-bound methods such as GetPersonInfo.
	RecordID uuid.UUID
	// Info is the serialized payload placed inside <info>. Empty means
	// an empty <info/>.
	Info []byte
}

// Response is a decoded platform envelope response.
type Response struct {
	Code    int
	Message string
	// Info is the <info> node, or nil when the response carried none.
	Info *xmlutil.Node
}

// Err maps a non-OK status to the error the caller sees.
func (r *Response) Err() error {
	if r.Code == constants.StatusOK {
		return nil
	}
	return &PlatformError{Code: r.Code, Message: r.Message}
}

// PlatformError is a failure status returned inside a well-formed
// response envelope.
type PlatformError struct {
	Code    int
	Message string
}

func (e *PlatformError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("platform error %d", e.Code)
	}
	return fmt.Sprintf("platform error %d: %s", e.Code, e.Message)
}

// SessionExpired reports whether the platform rejected the session
// credential, meaning a refresh and resend may succeed.
func (e *PlatformError) SessionExpired() bool {
	return e.Code == constants.StatusSessionExpired
}

// Is lets callers match a session rejection with
// errors.Is(err, constants.ErrSessionExpired).
func (e *PlatformError) Is(target error) bool {
	return target == constants.ErrSessionExpired && e.SessionExpired()
}

// EncodeRequest wraps req in the wire envelope:
//
//	<request>
//	  <header>
//	    <method/><method-version/>[<record-id/>]
//	    [<auth-session><auth-token/></auth-session>]
//	    <app-id/><msg-time/><request-id/>
//	  </header>
//	  <info>...</info>
//	</request>
//
// token may be empty for the one request that creates the session.
func EncodeRequest(req *Request, appID uuid.UUID, token string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	if err := xmlutil.Open(enc, "request"); err != nil {
		return nil, err
	}
	if err := xmlutil.Open(enc, "header"); err != nil {
		return nil, err
	}
	if err := xmlutil.WriteElement(enc, "method", req.Method); err != nil {
		return nil, err
	}
	version := req.MethodVersion
	if version == 0 {
		version = 1
	}
	if err := xmlutil.WriteInt(enc, "method-version", version); err != nil {
		return nil, err
	}
	if req.RecordID != uuid.Nil {
		if err := xmlutil.WriteElement(enc, "record-id", req.RecordID.String()); err != nil {
			return nil, err
		}
	}
	if token != "" {
		if err := xmlutil.Open(enc, "auth-session"); err != nil {
			return nil, err
		}
		if err := xmlutil.WriteElement(enc, "auth-token", token); err != nil {
			return nil, err
		}
		if err := xmlutil.Close(enc, "auth-session"); err != nil {
			return nil, err
		}
	}
	if err := xmlutil.WriteElement(enc, "app-id", appID.String()); err != nil {
		return nil, err
	}
	if err := xmlutil.WriteTime(enc, "msg-time", now); err != nil {
		return nil, err
	}
	requestID := rand.NewRequestID(constants.RequestIDLength)
	if err := xmlutil.WriteElement(enc, "request-id", requestID); err != nil {
		return nil, err
	}
	if err := xmlutil.Close(enc, "header"); err != nil {
		return nil, err
	}

	if err := xmlutil.Open(enc, "info"); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.Write(req.Info)
	if err := xmlutil.Close(enc, "info"); err != nil {
		return nil, err
	}
	if err := xmlutil.Close(enc, "request"); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeResponse parses the wire envelope:
//
//	<response>
//	  <status><code/>[<error><message/></error>]</status>
//	  [<info>...</info>]
//	</response>
func DecodeResponse(data []byte) (*Response, error) {
	root, err := xmlutil.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrInvalidResponse, err)
	}
	if root.Name != "response" {
		return nil, fmt.Errorf("%w: unexpected root element <%s>", constants.ErrInvalidResponse, root.Name)
	}
	status := root.Child("status")
	if status == nil {
		return nil, fmt.Errorf("%w: missing <status>", constants.ErrInvalidResponse)
	}
	code, ok, err := status.ChildInt("code")
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: missing or malformed status code", constants.ErrInvalidResponse)
	}

	resp := &Response{Code: code, Info: root.Child("info")}
	if errNode := status.Child("error"); errNode != nil {
		resp.Message, _ = errNode.ChildText("message")
	}
	return resp, nil
}

// EncodeAuthInfo builds the CreateAuthenticatedSessionToken payload
// from a credential source:
//
//	<auth-info><app-id/><credential>...</credential></auth-info>
func EncodeAuthInfo(appID uuid.UUID, source CredentialSource) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := xmlutil.Open(enc, "auth-info"); err != nil {
		return nil, err
	}
	if err := xmlutil.WriteElement(enc, "app-id", appID.String()); err != nil {
		return nil, err
	}
	if err := xmlutil.Open(enc, "credential"); err != nil {
		return nil, err
	}
	if err := source.WriteAuthInfo(enc); err != nil {
		return nil, err
	}
	if err := xmlutil.Close(enc, "credential"); err != nil {
		return nil, err
	}
	if err := xmlutil.Close(enc, "auth-info"); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeSessionToken reads the CreateAuthenticatedSessionToken
// response payload, <token expires="...">...</token>. When the expires
// attribute is absent the expiry is recovered from the token itself if
// possible.
func DecodeSessionToken(info *xmlutil.Node) (*credential.SessionCredential, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: missing <info>", constants.ErrInvalidResponse)
	}
	tokenNode := info.Child("token")
	if tokenNode == nil {
		return nil, fmt.Errorf("%w: missing <token>", constants.ErrInvalidResponse)
	}
	token := tokenNode.Text()
	if token == "" {
		return nil, fmt.Errorf("%w: empty session token", constants.ErrInvalidResponse)
	}
	expires, ok := tokenNode.Attr("expires")
	if !ok {
		return credential.FromToken(token), nil
	}
	at, err := time.Parse(time.RFC3339, expires)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed token expiry: %v", constants.ErrInvalidResponse, err)
	}
	return credential.New(token, at), nil
}
