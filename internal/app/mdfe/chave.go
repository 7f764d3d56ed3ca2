package mdfe

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"time"
)

// Código IBGE das unidades federativas (cUF da chave de acesso)
var codigosUF = map[string]int{
	"RO": 11, "AC": 12, "AM": 13, "RR": 14, "PA": 15, "AP": 16, "TO": 17,
	"MA": 21, "PI": 22, "CE": 23, "RN": 24, "PB": 25, "PE": 26, "AL": 27, "SE": 28, "BA": 29,
	"MG": 31, "ES": 32, "RJ": 33, "SP": 35,
	"PR": 41, "SC": 42, "RS": 43,
	"MS": 50, "MT": 51, "GO": 52, "DF": 53,
}

var apenasDigitos = regexp.MustCompile(`^\d+$`)

// GerarChaveAcesso - monta a chave de acesso de 44 dígitos do MDFe:
//
//	cUF(2) AAMM(4) CNPJ(14) mod(2)=58 serie(3) numero(9) tpEmis(1) cMDF(8) cDV(1)
//
// O código numérico cMDF é derivado deterministicamente de (CNPJ, série,
// número), então chamadas repetidas com os mesmos dados produzem a mesma
// chave. O dígito verificador é o módulo 11 padrão da SEFAZ.
func GerarChaveAcesso(uf string, emissao time.Time, cnpj string, serie, numero, tipoEmissao int) (string, error) {
	cuf, ok := codigosUF[uf]
	if !ok {
		return "", fmt.Errorf("%w: UF do emitente desconhecida %q", ErrValidacao, uf)
	}
	if len(cnpj) != 14 || !apenasDigitos.MatchString(cnpj) {
		return "", fmt.Errorf("%w: CNPJ do emitente deve ter 14 dígitos", ErrValidacao)
	}
	if numero <= 0 || numero > 999999999 {
		return "", fmt.Errorf("%w: número do documento fora do intervalo", ErrValidacao)
	}
	if serie < 0 || serie > 999 {
		return "", fmt.Errorf("%w: série fora do intervalo", ErrValidacao)
	}
	if tipoEmissao <= 0 {
		tipoEmissao = 1
	}

	base := fmt.Sprintf("%02d%s%s58%03d%09d%d%08d",
		cuf,
		emissao.Format("0601"), // AAMM
		cnpj,
		serie,
		numero,
		tipoEmissao,
		codigoNumerico(cnpj, serie, numero),
	)

	return base + fmt.Sprintf("%d", digitoVerificador(base)), nil
}

// codigoNumerico - cMDF de 8 dígitos, determinístico por (CNPJ, série, número)
func codigoNumerico(cnpj string, serie, numero int) int {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%d|%d", cnpj, serie, numero)
	return int(h.Sum32() % 100000000)
}

// digitoVerificador - módulo 11 com pesos 2..9 da direita para a esquerda;
// resto 0 ou 1 resulta em dígito 0.
func digitoVerificador(chave43 string) int {
	peso := 2
	soma := 0
	for i := len(chave43) - 1; i >= 0; i-- {
		soma += int(chave43[i]-'0') * peso
		peso++
		if peso > 9 {
			peso = 2
		}
	}
	resto := soma % 11
	if resto < 2 {
		return 0
	}
	return 11 - resto
}

// ValidarChaveAcesso - confere formato e dígito verificador de uma chave
func ValidarChaveAcesso(chave string) bool {
	if len(chave) != 44 || !apenasDigitos.MatchString(chave) {
		return false
	}
	return digitoVerificador(chave[:43]) == int(chave[43]-'0')
}
