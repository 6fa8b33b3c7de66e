package registry

import (
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/require"
)

// parseFragment parses an XML snippet and returns the node matching xpath,
// failing the test if either step fails.
func parseFragment(t *testing.T, xmlSnippet, xpath string) *xmlquery.Node {
	t.Helper()
	root, err := xmlquery.Parse(strings.NewReader(xmlSnippet))
	require.NoError(t, err)
	node := xmlquery.FindOne(root, xpath)
	require.NotNil(t, node, "xpath %q matched nothing", xpath)
	return node
}
