package mdfe

import (
	"regexp"
	"strconv"
	"strings"
)

// Divergencia - desvio encontrado na conferência do INI
type Divergencia struct {
	Secao  string `json:"secao"`
	Chave  string `json:"chave"`
	Motivo string `json:"motivo"`
}

// RelatorioConformidade - resultado da conferência, com a lista completa de
// divergências (a conferência não para na primeira falha)
type RelatorioConformidade struct {
	Conforme     bool          `json:"conforme"`
	Divergencias []Divergencia `json:"divergencias"`
}

// ConformanceChecker valida um INI de submissão contra o leiaute esperado
// antes do envio: seções obrigatórias, chaves obrigatórias e o formato dos
// campos numéricos de identificação.
type ConformanceChecker struct{}

func NewConformanceChecker() *ConformanceChecker {
	return &ConformanceChecker{}
}

var (
	reSecao  = regexp.MustCompile(`^\[([^\]]+)\]$`)
	reDigito = regexp.MustCompile(`^[0-9]+$`)
)

// regras por seção obrigatória: chave -> validador (nil = só presença)
var regrasConferencia = map[string]map[string]func(string) string{
	"ide": {
		"cUF":    digitos(2),
		"tpAmb":  umDe("1", "2"),
		"mod":    exato("58"),
		"serie":  numerico(),
		"nMDF":   numerico(),
		"tpEmis": umDe("1", "2"),
		"UFIni":  uf(),
		"UFFim":  uf(),
	},
	"emit": {
		"CNPJ":  digitos(14),
		"xNome": naoVazio(),
		"UF":    uf(),
	},
	"veicTracao": {
		"placa": naoVazio(),
		"tara":  numerico(),
		"UF":    uf(),
	},
	"tot": {
		"qCTe": numerico(),
		"qNFe": numerico(),
	},
}

// Conferir analisa o texto INI e devolve o relatório de divergências.
func (c *ConformanceChecker) Conferir(texto string) RelatorioConformidade {
	secoes := parseINI(texto)
	rel := RelatorioConformidade{Conforme: true}

	aponta := func(secao, chave, motivo string) {
		rel.Conforme = false
		rel.Divergencias = append(rel.Divergencias, Divergencia{Secao: secao, Chave: chave, Motivo: motivo})
	}

	for _, secao := range []string{"ide", "emit", "veicTracao", "tot"} {
		chaves, ok := secoes[secao]
		if !ok {
			aponta(secao, "", "seção obrigatória ausente")
			continue
		}
		for chave, valida := range regrasConferencia[secao] {
			v, presente := chaves[chave]
			if !presente || v == "" {
				aponta(secao, chave, "chave obrigatória ausente")
				continue
			}
			if motivo := valida(v); motivo != "" {
				aponta(secao, chave, motivo)
			}
		}
	}

	if _, ok := secoes["condutor001"]; !ok {
		aponta("condutor001", "", "ao menos um condutor é obrigatório")
	}

	c.conferirChavesReferenciadas(secoes, aponta)
	c.conferirValesPedagio(secoes, aponta)

	return rel
}

// conferirChavesReferenciadas valida as chaves de 44 dígitos dos documentos vinculados
func (c *ConformanceChecker) conferirChavesReferenciadas(secoes map[string]map[string]string, aponta func(string, string, string)) {
	for nome, chaves := range secoes {
		var campo string
		switch {
		case strings.HasPrefix(nome, "infCTe"):
			campo = "chCTe"
		case strings.HasPrefix(nome, "infNFe"):
			campo = "chNFe"
		default:
			continue
		}
		v := chaves[campo]
		if v == "" {
			aponta(nome, campo, "chave obrigatória ausente")
			continue
		}
		if !ValidarChaveAcesso(v) {
			aponta(nome, campo, "chave de acesso inválida")
		}
	}
}

func (c *ConformanceChecker) conferirValesPedagio(secoes map[string]map[string]string, aponta func(string, string, string)) {
	for nome, chaves := range secoes {
		if !strings.HasPrefix(nome, "valePed") {
			continue
		}
		if v := chaves["CNPJForn"]; !reDigito.MatchString(v) || len(v) != 14 {
			aponta(nome, "CNPJForn", "esperado CNPJ com 14 dígitos")
		}
		if chaves["nCompra"] == "" {
			aponta(nome, "nCompra", "chave obrigatória ausente")
		}
	}
}

// parseINI quebra o texto em seções; linhas fora de seção e comentários
// (';' ou '#') são descartados, chaves repetidas ficam com o último valor.
func parseINI(texto string) map[string]map[string]string {
	secoes := make(map[string]map[string]string)
	var atual map[string]string

	for _, linha := range strings.Split(texto, "\n") {
		linha = strings.TrimSpace(linha)
		if linha == "" || strings.HasPrefix(linha, ";") || strings.HasPrefix(linha, "#") {
			continue
		}
		if m := reSecao.FindStringSubmatch(linha); m != nil {
			atual = make(map[string]string)
			secoes[m[1]] = atual
			continue
		}
		if atual == nil {
			continue
		}
		chave, valor, ok := strings.Cut(linha, "=")
		if !ok {
			continue
		}
		atual[strings.TrimSpace(chave)] = strings.TrimSpace(valor)
	}
	return secoes
}

func digitos(n int) func(string) string {
	return func(v string) string {
		if !reDigito.MatchString(v) || len(v) != n {
			return "esperado campo numérico de " + strconv.Itoa(n) + " dígitos"
		}
		return ""
	}
}

func numerico() func(string) string {
	return func(v string) string {
		if !reDigito.MatchString(v) {
			return "esperado valor numérico"
		}
		return ""
	}
}

func exato(esperado string) func(string) string {
	return func(v string) string {
		if v != esperado {
			return "esperado valor " + esperado
		}
		return ""
	}
}

func umDe(valores ...string) func(string) string {
	return func(v string) string {
		for _, e := range valores {
			if v == e {
				return ""
			}
		}
		return "valor fora do domínio permitido"
	}
}

func uf() func(string) string {
	return func(v string) string {
		if _, ok := codigosUF[v]; !ok {
			return "sigla de UF desconhecida"
		}
		return ""
	}
}

func naoVazio() func(string) string {
	return func(v string) string { return "" }
}
