package mdfe

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emissaoFixa = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func TestGerarChaveAcesso_FormatoCompleto(t *testing.T) {
	chave, err := GerarChaveAcesso("SP", emissaoFixa, "12345678000195", 1, 42, 1)
	require.NoError(t, err)

	assert.Len(t, chave, 44)
	assert.True(t, strings.HasPrefix(chave, "35"), "cUF de SP é 35")
	assert.Equal(t, "2603", chave[2:6], "AAMM da emissão")
	assert.Equal(t, "12345678000195", chave[6:20])
	assert.Equal(t, "58", chave[20:22], "modelo fixo do MDFe")
	assert.Equal(t, "001", chave[22:25])
	assert.Equal(t, "000000042", chave[25:34])
	assert.Equal(t, "1", chave[34:35], "tipo de emissão normal")
}

func TestGerarChaveAcesso_Deterministica(t *testing.T) {
	a, err := GerarChaveAcesso("SP", emissaoFixa, "12345678000195", 1, 7, 1)
	require.NoError(t, err)
	b, err := GerarChaveAcesso("SP", emissaoFixa, "12345678000195", 1, 7, 1)
	require.NoError(t, err)

	assert.Equal(t, a, b, "mesmos dados devem gerar a mesma chave")
}

func TestGerarChaveAcesso_NumerosDistintosGeramChavesDistintas(t *testing.T) {
	a, err := GerarChaveAcesso("SP", emissaoFixa, "12345678000195", 1, 7, 1)
	require.NoError(t, err)
	b, err := GerarChaveAcesso("SP", emissaoFixa, "12345678000195", 1, 8, 1)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGerarChaveAcesso_DigitoVerificadorValido(t *testing.T) {
	chave, err := GerarChaveAcesso("MG", emissaoFixa, "98765432000110", 2, 1001, 2)
	require.NoError(t, err)

	assert.True(t, ValidarChaveAcesso(chave))
}

func TestGerarChaveAcesso_Invalidas(t *testing.T) {
	casos := []struct {
		nome  string
		uf    string
		cnpj  string
		serie int
		num   int
	}{
		{"uf desconhecida", "XX", "12345678000195", 1, 1},
		{"cnpj curto", "SP", "123", 1, 1},
		{"cnpj com letras", "SP", "1234567800019A", 1, 1},
		{"numero zero", "SP", "12345678000195", 1, 0},
		{"numero acima do limite", "SP", "12345678000195", 1, 1000000000},
		{"serie acima do limite", "SP", "12345678000195", 1000, 1},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			_, err := GerarChaveAcesso(c.uf, emissaoFixa, c.cnpj, c.serie, c.num, 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidacao)
		})
	}
}

func TestValidarChaveAcesso(t *testing.T) {
	chave, err := GerarChaveAcesso("RS", emissaoFixa, "11222333000181", 1, 55, 1)
	require.NoError(t, err)

	assert.True(t, ValidarChaveAcesso(chave))
	assert.False(t, ValidarChaveAcesso(chave[:43]), "tamanho errado")
	assert.False(t, ValidarChaveAcesso(chave[:43]+"X"), "caractere não numérico")

	// corrompe o dígito verificador
	dv := chave[43]
	outro := byte('0')
	if dv == '0' {
		outro = '1'
	}
	assert.False(t, ValidarChaveAcesso(chave[:43]+string(outro)))
}
