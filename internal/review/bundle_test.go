package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFileBundle = `diff --git a/main.go b/main.go
--- a/main.go
+++ b/main.go
@@ -1,3 +1,3 @@
 package main
-func old() {}
+func new() {}
 // end
diff --git a/util/helper.go b/util/helper.go
--- a/util/helper.go
+++ b/util/helper.go
@@ -1,2 +1,3 @@
 package util
+// added
 var x = 1
`

func TestSplitDiffBundle(t *testing.T) {
	parts, err := SplitDiffBundle(twoFileBundle)
	require.NoError(t, err)
	require.Len(t, parts, 2)

	main, ok := parts["main.go"]
	require.True(t, ok, "keys: %v", parts)
	assert.Contains(t, main, "+func new() {}")
	assert.NotContains(t, main, "helper")

	helper, ok := parts["util/helper.go"]
	require.True(t, ok)
	assert.Contains(t, helper, "+// added")
}

func TestSplitDiffBundleEmpty(t *testing.T) {
	parts, err := SplitDiffBundle("   \n")
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestSplitDiffBundleKeepsHunkHeaders(t *testing.T) {
	parts, err := SplitDiffBundle(twoFileBundle)
	require.NoError(t, err)
	for path, text := range parts {
		assert.True(t, strings.Contains(text, "@@"), "%s lost its hunk header", path)
	}
}
