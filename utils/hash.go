package utils

// NameHash is the archive name hash used to address cache groups by name
func NameHash(str string) int32 {
	var hash int32
	for _, c := range []byte(str) {
		hash = int32(c) + (hash << 5) - hash
	}
	return hash
}
