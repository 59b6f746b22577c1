package testutil

import "testing"

// Given, When, and Then helpers keep test narration readable without pulling
// in a heavy BDD framework. They only annotate the test log.
func Given(t *testing.T, desc string) {
	t.Helper()
	t.Log("Given " + desc)
}

func When(t *testing.T, desc string) {
	t.Helper()
	t.Log("When " + desc)
}

func Then(t *testing.T, desc string) {
	t.Helper()
	t.Log("Then " + desc)
}
