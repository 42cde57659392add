package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchExpression(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
		ok    bool
	}{
		{name: "implicit and", query: "car hire", want: `("car" AND "hire")`, ok: true},
		{name: "or alternatives", query: "car OR van", want: `("car") OR ("van")`, ok: true},
		{name: "lowercase or", query: "car or van", want: `("car") OR ("van")`, ok: true},
		{name: "phrase", query: `"luxury car" hire`, want: `("luxury car" AND "hire")`, ok: true},
		{name: "negation", query: "car -van", want: `(("car") NOT ("van"))`, ok: true},
		{name: "negated phrase", query: `car -"mini van"`, want: `(("car") NOT ("mini van"))`, ok: true},
		{name: "stray quote opens phrase", query: `o"neil`, want: `("o" AND "neil")`, ok: true},
		{name: "punctuation only dropped", query: "car ?? !", want: `("car")`, ok: true},
		{name: "hyphenated word kept", query: "non-fault", want: `("non-fault")`, ok: true},
		{name: "only negation", query: "-van", ok: false},
		{name: "dangling or", query: "OR", ok: false},
		{name: "blank", query: "   ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchExpression(tt.query)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
