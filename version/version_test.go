package version

import (
	"testing"

	"github.com/jetsetilly/acpmix/test"
)

func TestDescribe(t *testing.T) {
	v, r := describe("", buildInfo{})
	test.ExpectEquality(t, v, "local")
	test.ExpectEquality(t, r, "no revision information")

	v, r = describe("", buildInfo{vcs: true, revision: "abc123", modified: true})
	test.ExpectEquality(t, v, "unreleased")
	test.ExpectEquality(t, r, "abc123+dirty")

	v, r = describe("v0.2", buildInfo{vcs: true, revision: "abc123"})
	test.ExpectEquality(t, v, "v0.2")
	test.ExpectEquality(t, r, "abc123")
}
