package mdfe

import (
	"context"
	"fmt"
	"time"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

// fakeStore - implementação em memória do Store para os testes do motor
type fakeStore struct {
	emitentes    map[uint]*ds.Emitente
	veiculos     map[uint]*ds.Veiculo
	condutores   map[uint]*ds.Condutor
	contratantes map[uint]*ds.Contratante
	seguradoras  map[uint]*ds.Seguradora
	municipios   map[int]*ds.Municipio

	docs      map[uint]*ds.MDFe
	proximoID uint

	// duplicarProximoSave força ErrNumeroDuplicado no próximo SaveMDFe de
	// documento novo, simulando a corrida de numeração
	duplicarProximoSave bool
}

func novoFakeStore() *fakeStore {
	return &fakeStore{
		emitentes:    map[uint]*ds.Emitente{},
		veiculos:     map[uint]*ds.Veiculo{},
		condutores:   map[uint]*ds.Condutor{},
		contratantes: map[uint]*ds.Contratante{},
		seguradoras:  map[uint]*ds.Seguradora{},
		municipios:   map[int]*ds.Municipio{},
		docs:         map[uint]*ds.MDFe{},
	}
}

// comCadastroBasico - emitente 1 (SP), veículo tração 1, condutor 1,
// reboque 2 e municípios de São Paulo e Campinas
func novoFakeStoreComCadastro() *fakeStore {
	s := novoFakeStore()
	s.emitentes[1] = &ds.Emitente{ID: 1, RazaoSocial: "Transportes Penapolis LTDA", CNPJ: "12345678000195", UF: "SP", TipoEmitente: 2}
	s.veiculos[1] = &ds.Veiculo{ID: 1, Placa: "ABC1D23", Tara: 7500, UF: "SP", TipoUnidade: "tracao"}
	s.veiculos[2] = &ds.Veiculo{ID: 2, Placa: "XYZ9K88", Tara: 5000, UF: "SP", TipoUnidade: "reboque"}
	s.condutores[1] = &ds.Condutor{ID: 1, Nome: "João da Silva", CPF: "12345678901"}
	s.municipios[3550308] = &ds.Municipio{ID: 1, CodigoIBGE: 3550308, Nome: "São Paulo", UF: "SP"}
	s.municipios[3509502] = &ds.Municipio{ID: 2, CodigoIBGE: 3509502, Nome: "Campinas", UF: "SP"}
	return s
}

func (s *fakeStore) GetEmitente(id uint) (*ds.Emitente, error) {
	if e, ok := s.emitentes[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("emitente não encontrado")
}

func (s *fakeStore) GetVeiculo(id uint) (*ds.Veiculo, error) {
	if v, ok := s.veiculos[id]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("veículo não encontrado")
}

func (s *fakeStore) GetCondutor(id uint) (*ds.Condutor, error) {
	if c, ok := s.condutores[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("condutor não encontrado")
}

func (s *fakeStore) GetContratante(id uint) (*ds.Contratante, error) {
	if c, ok := s.contratantes[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("contratante não encontrado")
}

func (s *fakeStore) GetSeguradora(id uint) (*ds.Seguradora, error) {
	if sg, ok := s.seguradoras[id]; ok {
		return sg, nil
	}
	return nil, fmt.Errorf("seguradora não encontrada")
}

func (s *fakeStore) GetMunicipioPorCodigo(codigoIBGE int) (*ds.Municipio, error) {
	if m, ok := s.municipios[codigoIBGE]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("município não cadastrado")
}

func (s *fakeStore) MaxNumero(emitenteID uint, serie int) (int, error) {
	max := 0
	for _, d := range s.docs {
		if d.EmitenteID == emitenteID && d.Serie == serie && d.Numero > max {
			max = d.Numero
		}
	}
	return max, nil
}

func (s *fakeStore) GetMDFe(id uint) (*ds.MDFe, error) {
	if d, ok := s.docs[id]; ok {
		copia := *d
		return &copia, nil
	}
	return nil, fmt.Errorf("manifesto não encontrado")
}

func (s *fakeStore) SaveMDFe(doc *ds.MDFe) error {
	if doc.ID == 0 && s.duplicarProximoSave {
		s.duplicarProximoSave = false
		return ErrNumeroDuplicado
	}
	for _, d := range s.docs {
		if d.ID != doc.ID && d.EmitenteID == doc.EmitenteID && d.Serie == doc.Serie && d.Numero == doc.Numero {
			return ErrNumeroDuplicado
		}
	}
	if doc.ID == 0 {
		s.proximoID++
		doc.ID = s.proximoID
	}
	copia := *doc
	s.docs[doc.ID] = &copia
	return nil
}

// fakeGateway - gateway programável; devolve o Resultado configurado por
// operação e registra as chamadas feitas
type fakeGateway struct {
	resultados map[string]*Resultado
	chamadas   []string
}

func novoFakeGateway() *fakeGateway {
	return &fakeGateway{resultados: map[string]*Resultado{}}
}

func (g *fakeGateway) responder(op string, r *Resultado) { g.resultados[op] = r }

func (g *fakeGateway) resultado(op string) (*Resultado, error) {
	g.chamadas = append(g.chamadas, op)
	if r, ok := g.resultados[op]; ok {
		return r, nil
	}
	return &Resultado{Sucesso: true, Dados: map[string]string{}}, nil
}

func (g *fakeGateway) GerarXML(ctx context.Context, chave, ini string) (*Resultado, error) {
	return g.resultado("gerarXML")
}
func (g *fakeGateway) Transmitir(ctx context.Context, chave, ini string) (*Resultado, error) {
	return g.resultado("transmitir")
}
func (g *fakeGateway) ConsultarProtocolo(ctx context.Context, chave, protocolo string) (*Resultado, error) {
	return g.resultado("consultarProtocolo")
}
func (g *fakeGateway) ConsultarPorChave(ctx context.Context, chave string) (*Resultado, error) {
	return g.resultado("consultarPorChave")
}
func (g *fakeGateway) ConsultarRecibo(ctx context.Context, recibo string) (*Resultado, error) {
	return g.resultado("consultarRecibo")
}
func (g *fakeGateway) Cancelar(ctx context.Context, chave, justificativa string) (*Resultado, error) {
	return g.resultado("cancelar")
}
func (g *fakeGateway) Encerrar(ctx context.Context, chave string, codigoMunicipio int, data time.Time) (*Resultado, error) {
	return g.resultado("encerrar")
}
func (g *fakeGateway) StatusServico(ctx context.Context) (*Resultado, error) {
	return g.resultado("statusServico")
}
func (g *fakeGateway) DistribuicaoPorNSU(ctx context.Context, uf, cnpj, nsu string) (*Resultado, error) {
	return g.resultado("distNSU")
}
func (g *fakeGateway) DistribuicaoPorUltimoNSU(ctx context.Context, uf, cnpj, ultimoNSU string) (*Resultado, error) {
	return g.resultado("distUltimoNSU")
}
func (g *fakeGateway) DistribuicaoPorChave(ctx context.Context, uf, cnpj, chave string) (*Resultado, error) {
	return g.resultado("distChave")
}
func (g *fakeGateway) GerarPDF(ctx context.Context, chave string) (*Resultado, error) {
	return g.resultado("gerarPDF")
}

// payloadMinimo - payload válido mínimo usado na maioria dos cenários
func payloadMinimo() *DocumentoPayload {
	uf := "SP"
	ufFim := "PR"
	return &DocumentoPayload{
		EmitenteID:       1,
		VeiculoID:        1,
		CondutorID:       1,
		UFInicio:         &uf,
		UFFim:            &ufFim,
		DescricaoProduto: "Carga geral",
		PesoBrutoTotal:   12000,
		ValorTotal:       85000,
	}
}
