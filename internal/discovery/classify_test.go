package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/testshard/internal/partition"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
		rule string
	}{
		{"", false, "blank"},
		{"   ", false, "blank"},
		{"tests/login/test_login.py::test_valid_login", true, "node-id"},
		{"  tests/login/test_login.py::TestLogin::test_locked[chrome]  ", true, "node-id"},
		{"tests/checkout/test_cart.py", true, "unix-path"},
		{`tests\checkout\test_cart.py`, true, "windows-path"},
		{"suite/test_smoke", true, "test-path"},
		{"WARNING: something odd", false, "warning-prefix"},
		{"PytestWarning: unknown mark", false, "warning-prefix"},
		{"DeprecationWarning: old api tests/x.py::y", false, "warning-prefix"},
		{"ERROR: file not found: tests/none.py", false, "error-prefix"},
		{"ERROR collecting tests/login/test_login.py", false, "error-prefix"},
		{"no tests ran in 0.01s", false, "no-tests"},
		{"no tests collected in 0.01s", false, "no-tests"},
		{"5 tests collected in 0.12s", false, "summary"},
		{"1 test collected in 0.01s", false, "summary"},
		{"3/10 tests collected (7 deselected) in 0.05s", false, "summary"},
		{"==================== warnings summary ====================", false, "banner"},
		{"-- Docs: https://docs.pytest.org/en/stable/how-to/capture-warnings.html", false, "banner"},
		{"tests/conftest.py:12: PytestUnknownMarkWarning: Unknown pytest.mark.checkout", false, "warning-location"},
		{`C:\ci\tests\conftest.py:7: UserWarning: deprecated fixture`, false, "warning-location"},
		{"tests/test_a.py::test_x[err.py:12: ValueError]", true, "node-id"},
		{"tests/test_parse.py::TestParse::test_line[conftest.py:3: UserWarning]", true, "node-id"},
		{"  warnings.warn(", false, "no-match"},
		{"random text", false, "no-match"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, rule := Classify(tt.line)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rule, rule.Name)
			assert.Equal(t, tt.want, ClassifyLine(tt.line))
		})
	}
}

func TestRules_ExclusionsFirst(t *testing.T) {
	seenInclude := false
	for _, r := range Rules() {
		if r.Kind == Include {
			seenInclude = true
			continue
		}
		assert.False(t, seenInclude, "исключение %q после включения", r.Name)
	}
}

func TestRules_ReturnsCopy(t *testing.T) {
	r := Rules()
	r[0] = Rule{Name: "changed"}
	assert.Equal(t, "blank", Rules()[0].Name)
}

func TestRuleKind_String(t *testing.T) {
	assert.Equal(t, "include", Include.String())
	assert.Equal(t, "exclude", Exclude.String())
}

const pytestOutput = `tests/checkout/test_cart.py::TestCart::test_add_item
tests/checkout/test_cart.py::TestCart::test_remove_item
tests/login/test_login.py::test_valid_login[chrome]
tests/login/test_login.py::test_valid_login[firefox]

=============================== warnings summary ===============================
tests/conftest.py:7: PytestUnknownMarkWarning: Unknown pytest.mark.checkout
  config.addinivalue_line(

-- Docs: https://docs.pytest.org/en/stable/how-to/capture-warnings.html
4 tests collected in 0.08s
`

func TestParseOutput(t *testing.T) {
	ids, rejected := ParseOutput(pytestOutput)

	assert.Equal(t, []partition.TestID{
		"tests/checkout/test_cart.py::TestCart::test_add_item",
		"tests/checkout/test_cart.py::TestCart::test_remove_item",
		"tests/login/test_login.py::test_valid_login[chrome]",
		"tests/login/test_login.py::test_valid_login[firefox]",
	}, ids)

	require.Len(t, rejected, 5)
	assert.Equal(t, "banner", rejected[0].Rule)
	assert.Equal(t, "warning-location", rejected[1].Rule)
	assert.Equal(t, "no-match", rejected[2].Rule)
	assert.Equal(t, "summary", rejected[4].Rule)
}

func TestParseOutput_ParamLooksLikeWarningLocation(t *testing.T) {
	out := "tests/test_a.py::test_x[err.py:12: ValueError]\n" +
		"tests/test_a.py:3: PytestUnknownMarkWarning: Unknown pytest.mark.slow\n"

	ids, rejected := ParseOutput(out)

	assert.Equal(t, []partition.TestID{"tests/test_a.py::test_x[err.py:12: ValueError]"}, ids)
	require.Len(t, rejected, 1)
	assert.Equal(t, "warning-location", rejected[0].Rule)
}

func TestParseOutput_CRLF(t *testing.T) {
	ids, _ := ParseOutput("a/test_x.py::t1\r\na/test_x.py::t2\r\n")
	assert.Equal(t, []partition.TestID{"a/test_x.py::t1", "a/test_x.py::t2"}, ids)
}

func TestParseOutput_Empty(t *testing.T) {
	ids, rejected := ParseOutput("")
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
	assert.Empty(t, rejected)
}
