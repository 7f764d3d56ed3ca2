package mdfe

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

// ResultadoGravacao - documento persistido mais os itens de coleção que a
// política leniente descartou.
type ResultadoGravacao struct {
	Documento *ds.MDFe       `json:"documento"`
	Ignorados []ItemIgnorado `json:"ignorados,omitempty"`
}

// Assembler - casos de uso de criação/atualização do MDFe. Orquestra
// alocação de número, composição das coleções, snapshot, chave de acesso e
// máquina de estados, e persiste pelo Store.
type Assembler struct {
	store    Store
	alloc    *NumberAllocator
	composer *Composer
	sm       StateMachine
}

func NewAssembler(store Store) *Assembler {
	return &Assembler{
		store:    store,
		alloc:    NewNumberAllocator(store),
		composer: NewComposer(store),
	}
}

// SalvarRascunho - ponto de entrada único de upsert: cria quando o payload
// não traz ID, atualiza quando traz.
func (a *Assembler) SalvarRascunho(p *DocumentoPayload) (*ResultadoGravacao, error) {
	if p.ID == 0 {
		return a.Criar(p)
	}
	return a.Atualizar(p.ID, p)
}

// Criar - monta e persiste um documento novo em rascunho
func (a *Assembler) Criar(p *DocumentoPayload) (*ResultadoGravacao, error) {
	refs, err := a.resolverReferencias(p)
	if err != nil {
		return nil, err
	}

	serie := p.Serie
	if serie <= 0 {
		serie = 1
	}

	doc := &ds.MDFe{}
	a.aplicarCampos(doc, p)
	doc.Serie = serie
	doc.EmitenteID = refs.emitente.ID
	doc.VeiculoID = refs.veiculo.ID
	doc.CondutorID = refs.condutor.ID
	doc.ContratanteID = p.ContratanteID
	doc.SeguradoraID = p.SeguradoraID

	ignorados := a.composer.Compor(doc, p)
	CongelarSnapshot(doc, refs.emitente, refs.veiculo, refs.condutor)
	a.sm.Iniciar(doc, "documento criado")

	// Alocação + gravação com uma retentativa em colisão de numeração:
	// a leitura do máximo não é atômica e duas criações concorrentes da
	// mesma série podem disputar o mesmo número.
	for tentativa := 0; ; tentativa++ {
		numero, err := a.alloc.ProximoNumero(doc.EmitenteID, serie, p.Numero)
		if err != nil {
			return nil, err
		}
		doc.Numero = numero

		// A chave depende do número final, então só é gerada aqui, uma vez.
		chave, err := GerarChaveAcesso(refs.emitente.UF, doc.DataEmissao, refs.emitente.CNPJ, serie, numero, doc.TipoEmissao)
		if err != nil {
			return nil, err
		}
		doc.ChaveAcesso = chave

		err = a.store.SaveMDFe(doc)
		if err == nil {
			break
		}
		if errors.Is(err, ErrNumeroDuplicado) && p.Numero == 0 && tentativa == 0 {
			logrus.Warnf("mdfe: colisão de número %d na série %d do emitente %d, realocando", numero, serie, doc.EmitenteID)
			continue
		}
		return nil, err
	}

	return &ResultadoGravacao{Documento: doc, Ignorados: ignorados}, nil
}

// Atualizar - recompõe um documento existente. Só rascunho/em_digitacao
// aceitam alteração; emitente, número, série e chave de acesso nunca mudam.
func (a *Assembler) Atualizar(id uint, p *DocumentoPayload) (*ResultadoGravacao, error) {
	doc, err := a.store.GetMDFe(id)
	if err != nil {
		return nil, fmt.Errorf("%w: mdfe %d", ErrNotFound, id)
	}
	if !doc.Editavel() {
		return nil, fmt.Errorf("%w: status atual %s", ErrNaoEditavel, doc.Status)
	}

	refs, err := a.resolverReferencias(p)
	if err != nil {
		return nil, err
	}
	// a chave de acesso embute o CNPJ do emitente; trocar o emitente depois
	// da numeração deixaria chave e snapshot apontando para CNPJs diferentes
	if doc.ChaveAcesso != "" && refs.emitente.ID != doc.EmitenteID {
		return nil, fmt.Errorf("%w: emitente não pode ser alterado após a emissão da chave de acesso", ErrValidacao)
	}

	a.aplicarCampos(doc, p)
	doc.EmitenteID = refs.emitente.ID
	doc.VeiculoID = refs.veiculo.ID
	doc.CondutorID = refs.condutor.ID
	doc.ContratanteID = p.ContratanteID
	doc.SeguradoraID = p.SeguradoraID

	ignorados := a.composer.Compor(doc, p)
	CongelarSnapshot(doc, refs.emitente, refs.veiculo, refs.condutor)

	if doc.Status == ds.MDFeStatusRascunho {
		if err := a.sm.Transicionar(doc, ds.MDFeStatusEmDigitacao, "documento alterado"); err != nil {
			return nil, err
		}
	}

	if err := a.store.SaveMDFe(doc); err != nil {
		return nil, err
	}
	return &ResultadoGravacao{Documento: doc, Ignorados: ignorados}, nil
}

type referencias struct {
	emitente *ds.Emitente
	veiculo  *ds.Veiculo
	condutor *ds.Condutor
}

// resolverReferencias - veículo e condutor são obrigatórios até em rascunho;
// emitente idem (a numeração é por emitente). Contratante e seguradora são
// opcionais mas, se informados, precisam existir.
func (a *Assembler) resolverReferencias(p *DocumentoPayload) (*referencias, error) {
	if p.VeiculoID == 0 {
		return nil, fmt.Errorf("%w: veículo é obrigatório", ErrValidacao)
	}
	if p.CondutorID == 0 {
		return nil, fmt.Errorf("%w: condutor é obrigatório", ErrValidacao)
	}
	if p.EmitenteID == 0 {
		return nil, fmt.Errorf("%w: emitente é obrigatório", ErrValidacao)
	}

	emitente, err := a.store.GetEmitente(p.EmitenteID)
	if err != nil {
		return nil, fmt.Errorf("%w: emitente %d", ErrNotFound, p.EmitenteID)
	}
	veiculo, err := a.store.GetVeiculo(p.VeiculoID)
	if err != nil {
		return nil, fmt.Errorf("%w: veículo %d", ErrNotFound, p.VeiculoID)
	}
	condutor, err := a.store.GetCondutor(p.CondutorID)
	if err != nil {
		return nil, fmt.Errorf("%w: condutor %d", ErrNotFound, p.CondutorID)
	}
	if p.ContratanteID != nil {
		if _, err := a.store.GetContratante(*p.ContratanteID); err != nil {
			return nil, fmt.Errorf("%w: contratante %d", ErrNotFound, *p.ContratanteID)
		}
	}
	if p.SeguradoraID != nil {
		if _, err := a.store.GetSeguradora(*p.SeguradoraID); err != nil {
			return nil, fmt.Errorf("%w: seguradora %d", ErrNotFound, *p.SeguradoraID)
		}
	}

	return &referencias{emitente: emitente, veiculo: veiculo, condutor: condutor}, nil
}

// aplicarCampos - copia os campos escalares do payload. UF de início/fim
// ficam nulas quando ausentes, nunca assumem um estado padrão.
func (a *Assembler) aplicarCampos(doc *ds.MDFe, p *DocumentoPayload) {
	doc.TipoEmissao = p.TipoEmissao
	if doc.TipoEmissao == 0 {
		doc.TipoEmissao = 1
	}
	doc.Ambiente = p.Ambiente
	if doc.Ambiente == 0 {
		doc.Ambiente = 2
	}
	doc.Modal = 1

	doc.DataEmissao = p.DataEmissao
	if doc.DataEmissao.IsZero() {
		doc.DataEmissao = time.Now()
	}
	doc.DataInicioViagem = p.DataInicioViagem
	if doc.DataInicioViagem.IsZero() {
		doc.DataInicioViagem = doc.DataEmissao
	}

	doc.UFInicio = p.UFInicio
	doc.UFFim = p.UFFim
	doc.CodigoMunicipioCarregamento = p.CodigoMunicipioCarregamento
	doc.CodigoMunicipioDescarregamento = p.CodigoMunicipioDescarregamento
	doc.MunicipioCarregamento = a.nomeMunicipio(p.CodigoMunicipioCarregamento)
	doc.MunicipioDescarregamento = a.nomeMunicipio(p.CodigoMunicipioDescarregamento)
	doc.CEPCarregamento = p.CEPCarregamento
	doc.CEPDescarregamento = p.CEPDescarregamento

	doc.DescricaoProduto = p.DescricaoProduto
	doc.TipoCarga = p.TipoCarga
	if doc.TipoCarga == 0 {
		doc.TipoCarga = 5
	}
	doc.PesoBrutoTotal = p.PesoBrutoTotal
	doc.ValorTotal = p.ValorTotal
	doc.UnidadeMedida = p.UnidadeMedida
	if doc.UnidadeMedida == 0 {
		doc.UnidadeMedida = 1
	}
	doc.InfoAdicional = p.InfoAdicional
	doc.InfoFisco = p.InfoFisco

	doc.ChavesCTe = strings.Join(p.ChavesCTe, "\n")
	doc.ChavesNFe = strings.Join(p.ChavesNFe, "\n")
	doc.Rota = strings.Join(p.Rota, "\n")
}

// nomeMunicipio - resolve o nome pelo código IBGE; código não cadastrado
// fica com nome vazio (política leniente, a lista de localidades já avisa)
func (a *Assembler) nomeMunicipio(codigo int) string {
	if codigo <= 0 {
		return ""
	}
	m, err := a.store.GetMunicipioPorCodigo(codigo)
	if err != nil {
		return ""
	}
	return m.Nome
}

// LinhasNaoVazias - quebra um blob serializado (uma entrada por linha)
func LinhasNaoVazias(blob string) []string {
	if blob == "" {
		return nil
	}
	var out []string
	for _, l := range strings.Split(blob, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
