package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

func TestIsTypeSpecGenerated(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{name: "marker true", doc: `{"info":{"title":"x","x-typespec-generated":true}}`, want: true},
		{name: "marker array", doc: `{"info":{"x-typespec-generated":[{"emitter":"@azure-tools/typespec-autorest"}]}}`, want: true},
		{name: "marker object", doc: `{"info":{"x-typespec-generated":{}}}`, want: true},
		{name: "marker string", doc: `{"info":{"x-typespec-generated":"yes"}}`, want: true},
		{name: "marker false", doc: `{"info":{"x-typespec-generated":false}}`, want: false},
		{name: "marker empty string", doc: `{"info":{"x-typespec-generated":""}}`, want: false},
		{name: "marker zero", doc: `{"info":{"x-typespec-generated":0}}`, want: false},
		{name: "marker null", doc: `{"info":{"x-typespec-generated":null}}`, want: false},
		{name: "no marker", doc: `{"info":{"title":"x"}}`, want: false},
		{name: "no info", doc: `{"swagger":"2.0"}`, want: false},
		{name: "top level array", doc: `[]`, want: false},
		{name: "top level string", doc: `"swagger"`, want: false},
		{name: "top level null", doc: `null`, want: false},
		{name: "info string", doc: `{"info":"x"}`, want: false},
		{name: "info array", doc: `{"info":[{"x-typespec-generated":true}]}`, want: false},
		{name: "info null", doc: `{"info":null}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.IsTypeSpecGenerated([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsTypeSpecGenerated_MalformedDocument(t *testing.T) {
	for _, doc := range []string{`{"info": `, `[1,`, ``, `{"info":{"x-typespec-generated":tru}}`} {
		_, err := model.IsTypeSpecGenerated([]byte(doc))
		require.Error(t, err, doc)
	}
}
