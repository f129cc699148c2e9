package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Precedence(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name         string
		cmd          string
		installments int
		want         CommandType
	}{
		{"installments beat everything", "aporte al netflix", 3, TypeFixedPago},
		{"contribution", "aporte al fondo", 1, TypeContribution},
		{"contribution verb", "puse plata", 1, TypeContribution},
		{"subscription", "netflix del mes", 1, TypeSubscription},
		{"subscription beats fixed", "netflix del arriendo", 1, TypeSubscription},
		{"fixed", "arriendo del depto", 1, TypeFixedPago},
		{"fixed credit", "cuota del crédito", 1, TypeFixedPago},
		{"variable utility", "la luz del mes pasado", 1, TypeVariableService},
		{"variable supermarket", "compras del jumbo", 1, TypeVariableService},
		{"default", "sushi con amigos", 1, TypeVariableService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.cmd, tt.installments))
		})
	}
}

func BenchmarkClassify(b *testing.B) {
	c := NewClassifier()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Classify("compré sushi por veinticinco lucas en el jumbo", 1)
	}
}
