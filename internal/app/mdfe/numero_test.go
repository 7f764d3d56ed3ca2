package mdfe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

func TestProximoNumero_SerieVaziaComecaEmUm(t *testing.T) {
	store := novoFakeStoreComCadastro()
	alloc := NewNumberAllocator(store)

	n, err := alloc.ProximoNumero(1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProximoNumero_Sequencial(t *testing.T) {
	store := novoFakeStoreComCadastro()
	store.docs[1] = &ds.MDFe{ID: 1, EmitenteID: 1, Serie: 1, Numero: 1}
	store.docs[2] = &ds.MDFe{ID: 2, EmitenteID: 1, Serie: 1, Numero: 2}
	alloc := NewNumberAllocator(store)

	n, err := alloc.ProximoNumero(1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestProximoNumero_SeriesIndependentes(t *testing.T) {
	store := novoFakeStoreComCadastro()
	store.docs[1] = &ds.MDFe{ID: 1, EmitenteID: 1, Serie: 1, Numero: 9}
	alloc := NewNumberAllocator(store)

	n, err := alloc.ProximoNumero(1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "série 2 começa do zero mesmo com a série 1 em uso")
}

func TestProximoNumero_EmitentesIndependentes(t *testing.T) {
	store := novoFakeStoreComCadastro()
	store.docs[1] = &ds.MDFe{ID: 1, EmitenteID: 1, Serie: 1, Numero: 5}
	alloc := NewNumberAllocator(store)

	n, err := alloc.ProximoNumero(2, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProximoNumero_ExplicitoIgnoraSequencia(t *testing.T) {
	store := novoFakeStoreComCadastro()
	store.docs[1] = &ds.MDFe{ID: 1, EmitenteID: 1, Serie: 1, Numero: 50}
	alloc := NewNumberAllocator(store)

	n, err := alloc.ProximoNumero(1, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n, "número explícito é respeitado como veio")
}
