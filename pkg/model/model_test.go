package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lazyscan-project/lazyscan/pkg/model"
)

func TestCategoryValid(t *testing.T) {
	for _, cat := range model.Categories() {
		assert.True(t, cat.Valid(), "%s should be valid", cat)
	}
	assert.False(t, model.Category("bitcoin").Valid())
	assert.False(t, model.Category("").Valid())
}

func TestNewOperationIDIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := model.NewOperationID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
