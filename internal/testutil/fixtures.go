package testutil

// Fixtures holds pre-generated test data shared across test files, to avoid
// duplicating the same constants everywhere.
var Fixtures = struct {
	ValidAccount  string
	ValidPassword string
	ValidHash     string // SHA-1("testpass") hex
}{
	ValidAccount:  "testuser",
	ValidPassword: "testpass",
	ValidHash:     "206c80413b9a96c1312cc346b7d2517b84463edd",
}
