package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFollowIDs(t *testing.T) {
	assert.Equal(t, []string{"d-1", "d-2"}, DecodeFollowIDs(`["d-1","d-2"]`))
	assert.Empty(t, DecodeFollowIDs(""))
	assert.Empty(t, DecodeFollowIDs(`[]`))
	assert.Empty(t, DecodeFollowIDs(`not json`), "a corrupt session field degrades to an empty set")
}
