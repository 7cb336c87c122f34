package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOutput_NilSlice(t *testing.T) {
	type badOutput struct {
		Entries []int `json:"entries"`
	}
	err := ValidateOutput[badOutput]()
	assert.ErrorContains(t, err, "omitzero")

	assert.Panics(t, func() {
		CheckOutputSchema[badOutput]("bad_tool")
	})
}

func TestValidateOutput_Omitzero(t *testing.T) {
	type goodOutput struct {
		Entries []int `json:"entries,omitzero"`
		Total   int   `json:"total"`
	}
	assert.NoError(t, ValidateOutput[goodOutput]())
	assert.NoError(t, ValidateOutput[*goodOutput]())
	assert.NoError(t, ValidateOutput[any]())
}

func TestValidateOutput_RawMessage(t *testing.T) {
	type inner struct {
		Body json.RawMessage `json:"body,omitempty"`
	}
	type nested struct {
		Items []inner `json:"items,omitzero"`
	}

	assert.ErrorContains(t, ValidateOutput[inner](), "json.RawMessage at Body")
	assert.ErrorContains(t, ValidateOutput[nested](), "json.RawMessage at Items.[].Body")
}

func TestValidateOutput_ToolOutputs(t *testing.T) {
	assert.NoError(t, ValidateOutput[CountEntriesOutput]())
	assert.NoError(t, ValidateOutput[OverviewOutput]())
	assert.NoError(t, ValidateOutput[GetBodyOutput]())
	assert.NoError(t, ValidateOutput[FindEntriesOutput]())
	assert.NoError(t, ValidateOutput[QueryBodyOutput]())
	assert.NoError(t, ValidateOutput[SelectBodyOutput]())
}
