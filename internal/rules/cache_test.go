package rules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

func testEnvelope(revision string) *model.RulesEnvelope {
	return &model.RulesEnvelope{
		Rules: model.RuleSet{
			StaticParam:      "ABC",
			ChecksumIndexes:  []int{0, 1},
			ChecksumConstant: 5,
			Start:            "S",
			End:              "E",
			Revision:         revision,
		},
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewCache(t *testing.T) {
	c := NewCache(0, nil)
	c.Set(rulesKey, testEnvelope("set"))

	env, err := c.Get(context.Background(), rulesKey, func(context.Context) (*model.RulesEnvelope, error) {
		t.Fatal("loader must not be called")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "set", env.Rules.Revision)
	assert.Equal(t, 1, c.Len())
}
