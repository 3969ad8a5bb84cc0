package runtime

// Truthy reports whether v counts as true in a conditional. Only the
// Boolean false is falsey; every other value — including the empty
// list, zero, and the empty string — is truthy. This is narrower than
// the teacher language's notion of "falsey" (which also treats zero
// values of every type as false); scmgo follows the Scheme convention
// the spec calls for instead.
func Truthy(v Value) bool {
	if b, ok := v.(Boolean); ok {
		return bool(b)
	}
	return true
}
