// The [carevault] package is a typed Go client for the CareVault
// health-record platform.
//
// # Connections
//
// All traffic flows through a
// [github.com/carevault/carevault.go/pkg/connection.Connection]. The
// request/response channel is HTTP; pass a platform endpoint URL to
// [FromEndpointURLString] and it wires one up for you. Session
// credentials are created lazily and refreshed before expiry under a
// guard that guarantees at most one refresh, no matter how many
// callers hit an expired session at once.
//
// Two credential sources cover the platform's authentication
// scenarios: [github.com/carevault/carevault.go/pkg/connection.WebCredential]
// for interactive sign-in through the platform shell, and
// [github.com/carevault/carevault.go/pkg/connection.OfflineCredential]
// for applications acting on a person's behalf while they are away.
//
// # Things
//
// Health record entries ("things") live in
// [github.com/carevault/carevault.go/pkg/things]. Every typed item
// validates its fields as they are set and serializes itself to the
// platform's fixed XML schema. Items the SDK has no type for come back
// as [github.com/carevault/carevault.go/pkg/things.UnrecognizedThing]
// with their payload preserved.
//
// # Events
//
// The [github.com/carevault/carevault.go/pkg/connection/ws] package
// subscribes to record-change notifications over WebSocket and
// delivers them on a channel.
package carevault
