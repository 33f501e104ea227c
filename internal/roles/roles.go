package roles

// Role is the closed set of account roles. Roles are mutually exclusive:
// an account holds exactly one.
type Role string

const (
	Admin   Role = "ROLE_ADMIN"
	Manager Role = "ROLE_MANAGER"
	User    Role = "ROLE_USER"
)

// Area is a top-level application area gated by role.
type Area string

const (
	AreaAdmin   Area = "admin"
	AreaManager Area = "manager"
	AreaUser    Area = "user"
	AreaLogin   Area = "login"
)

// areaFor is the single authoritative mapping from role to authorized area
// and default landing path. Both the HTTP routing surface and the console
// client consume this table; there is no second switch to drift from it.
var areaFor = map[Role]struct {
	Area    Area
	Landing string
}{
	Admin:   {AreaAdmin, "/admin/dashboard"},
	Manager: {AreaManager, "/manager/projects"},
	User:    {AreaUser, "/user/projects"},
}

// Parse returns the Role for s, or ok=false when s is not a known role.
func Parse(s string) (Role, bool) {
	r := Role(s)
	_, ok := areaFor[r]
	return r, ok
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := areaFor[r]
	return ok
}

// AreaOf returns the single area r is authorized for. Unknown roles get
// AreaLogin.
func (r Role) AreaOf() Area {
	if m, ok := areaFor[r]; ok {
		return m.Area
	}
	return AreaLogin
}

// Landing returns the default landing path for r, or "/login" for unknown
// roles.
func (r Role) Landing() string {
	if m, ok := areaFor[r]; ok {
		return m.Landing
	}
	return "/login"
}

// Outcome is the result of resolving a navigation request against a role.
type Outcome struct {
	// Allowed is true when the requested area may render as-is.
	Allowed bool
	// Redirect is the path to send the client to when Allowed is false.
	Redirect string
}

// Resolve decides what happens when a client with the given role (empty or
// unknown meaning unauthenticated) requests the given area. The mapping is
// total: every (role, area) pair has exactly one outcome and mismatches
// always fall back to a redirect, never to an error.
//
//   - unauthenticated + any protected area  -> redirect to /login
//   - authenticated + own area              -> allowed
//   - authenticated + foreign area          -> redirect to own landing path
//   - AreaLogin                             -> allowed when unauthenticated,
//     otherwise redirect to own landing path
func Resolve(role Role, requested Area) Outcome {
	if !role.Valid() {
		if requested == AreaLogin {
			return Outcome{Allowed: true}
		}
		return Outcome{Redirect: "/login"}
	}
	if requested == role.AreaOf() {
		return Outcome{Allowed: true}
	}
	return Outcome{Redirect: role.Landing()}
}

// ResolvePath maps an arbitrary request path onto an area and resolves it.
// The root path and any path outside the three protected areas count as
// unmatched and redirect to the role's landing path (or /login when
// unauthenticated).
func ResolvePath(role Role, path string) Outcome {
	switch area := AreaOfPath(path); area {
	case AreaAdmin, AreaManager, AreaUser, AreaLogin:
		return Resolve(role, area)
	default:
		if role.Valid() {
			return Outcome{Redirect: role.Landing()}
		}
		return Outcome{Redirect: "/login"}
	}
}

// AreaOfPath classifies a request path. Paths that do not belong to a known
// area return "".
func AreaOfPath(path string) Area {
	switch {
	case path == "/login" || path == "/forgot-password":
		return AreaLogin
	case path == "/admin" || hasAreaPrefix(path, "/admin/"):
		return AreaAdmin
	case path == "/manager" || hasAreaPrefix(path, "/manager/"):
		return AreaManager
	case path == "/user" || hasAreaPrefix(path, "/user/"):
		return AreaUser
	default:
		return ""
	}
}

func hasAreaPrefix(path, prefix string) bool {
	return len(path) >= len(prefix) && path[:len(prefix)] == prefix
}

// All returns the known roles in a stable order, for menus and tests.
func All() []Role {
	return []Role{Admin, Manager, User}
}
