package helpers

// Unvendor returns "name" without a leading vendor prefix, so "-moz-any"
// becomes "any". A name that is only a prefix (or has an empty prefix) is
// returned unchanged.
func Unvendor(name string) string {
	if len(name) < 2 || name[0] != '-' || name[1] == '-' {
		return name
	}
	for i := 1; i < len(name); i++ {
		if name[i] == '-' {
			if i+1 == len(name) {
				return name
			}
			return name[i+1:]
		}
	}
	return name
}
