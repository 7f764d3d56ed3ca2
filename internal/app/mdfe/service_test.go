package mdfe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

// documentoPronto - cria um documento em rascunho pronto para transmitir
func documentoPronto(t *testing.T, store *fakeStore) *ds.MDFe {
	t.Helper()
	res, err := NewAssembler(store).Criar(payloadMinimo())
	require.NoError(t, err)
	return res.Documento
}

func TestTransmitir_Autorizado(t *testing.T) {
	store := novoFakeStoreComCadastro()
	gw := novoFakeGateway()
	gw.responder("transmitir", &Resultado{
		Sucesso: true,
		Dados: map[string]string{
			"cstat":     "100",
			"motivo":    "Autorizado o uso do MDF-e",
			"protocolo": "935260000012345",
			"recibo":    "351000012345678",
		},
	})
	svc := NewService(store, gw, NewIniGenerator())
	doc := documentoPronto(t, store)

	out, err := svc.Transmitir(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, ds.MDFeStatusAutorizado, out.Status)
	assert.Equal(t, "935260000012345", out.Protocolo)
	assert.Equal(t, "351000012345678", out.Recibo)
	assert.Equal(t, 100, out.CodigoStatusSefaz)
	assert.NotNil(t, out.DataTransmissao)
	assert.NotNil(t, out.DataAutorizacao)

	// persistido
	salvo, err := store.GetMDFe(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.MDFeStatusAutorizado, salvo.Status)
}

func TestTransmitir_Rejeitado(t *testing.T) {
	store := novoFakeStoreComCadastro()
	gw := novoFakeGateway()
	gw.responder("transmitir", &Resultado{
		Sucesso: true,
		Dados: map[string]string{
			"cstat":  "539",
			"motivo": "Duplicidade de MDF-e",
		},
	})
	svc := NewService(store, gw, NewIniGenerator())
	doc := documentoPronto(t, store)

	out, err := svc.Transmitir(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, ds.MDFeStatusRejeitado, out.Status)
	assert.Equal(t, 539, out.CodigoStatusSefaz)
	assert.Equal(t, "Duplicidade de MDF-e", out.MotivoSefaz)
	assert.Empty(t, out.Protocolo)
	assert.Nil(t, out.DataAutorizacao)
}

func TestTransmitir_FalhaDaPonteNaoPersiste(t *testing.T) {
	store := novoFakeStoreComCadastro()
	gw := novoFakeGateway()
	gw.responder("transmitir", &Resultado{
		Sucesso:    false,
		Mensagem:   "certificado digital expirado",
		CodigoErro: "ACBR-291",
	})
	svc := NewService(store, gw, NewIniGenerator())
	doc := documentoPronto(t, store)

	_, err := svc.Transmitir(context.Background(), doc.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGateway)
	assert.Contains(t, err.Error(), "ACBR-291")
	assert.Contains(t, err.Error(), "certificado digital expirado")

	// documento permanece como estava
	salvo, err := store.GetMDFe(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.MDFeStatusRascunho, salvo.Status)
}

func TestTransmitir_SemChaveAcesso(t *testing.T) {
	store := novoFakeStoreComCadastro()
	svc := NewService(store, novoFakeGateway(), nil)
	doc := documentoPronto(t, store)
	store.docs[doc.ID].ChaveAcesso = ""

	_, err := svc.Transmitir(context.Background(), doc.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChaveAusente)
}

func TestCancelar_ExigeAutorizadoEJustificativa(t *testing.T) {
	store := novoFakeStoreComCadastro()
	gw := novoFakeGateway()
	svc := NewService(store, gw, nil)
	doc := documentoPronto(t, store)

	// rascunho não cancela
	_, err := svc.Cancelar(context.Background(), doc.ID, "justificativa de cancelamento válida")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransicaoInvalida)

	store.docs[doc.ID].Status = ds.MDFeStatusAutorizado

	// justificativa curta
	_, err = svc.Cancelar(context.Background(), doc.ID, "curta demais")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidacao)

	gw.responder("cancelar", &Resultado{Sucesso: true, Dados: map[string]string{"protocolo": "935260000099999"}})
	out, err := svc.Cancelar(context.Background(), doc.ID, "erro nos dados da carga informados")
	require.NoError(t, err)
	assert.Equal(t, ds.MDFeStatusCancelado, out.Status)
	assert.Equal(t, "935260000099999", out.Protocolo)
}

func TestCancelar_SemChaveFalhaIndependenteDoStatus(t *testing.T) {
	store := novoFakeStoreComCadastro()
	svc := NewService(store, novoFakeGateway(), nil)
	doc := documentoPronto(t, store)
	store.docs[doc.ID].ChaveAcesso = ""
	store.docs[doc.ID].Status = ds.MDFeStatusAutorizado

	_, err := svc.Cancelar(context.Background(), doc.ID, "justificativa de cancelamento válida")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChaveAusente)
}

func TestEncerrar(t *testing.T) {
	store := novoFakeStoreComCadastro()
	gw := novoFakeGateway()
	svc := NewService(store, gw, nil)
	doc := documentoPronto(t, store)
	store.docs[doc.ID].Status = ds.MDFeStatusAutorizado

	// município obrigatório
	_, err := svc.Encerrar(context.Background(), doc.ID, 0, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidacao)

	out, err := svc.Encerrar(context.Background(), doc.ID, 4106902, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ds.MDFeStatusEncerrado, out.Status)

	// encerrado é terminal: segundo encerramento falha
	_, err = svc.Encerrar(context.Background(), doc.ID, 4106902, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransicaoInvalida)
}

func TestGerarXML(t *testing.T) {
	store := novoFakeStoreComCadastro()
	gw := novoFakeGateway()
	gw.responder("gerarXML", &Resultado{Sucesso: true, Dados: map[string]string{"xml": "<MDFe/>"}})
	svc := NewService(store, gw, NewIniGenerator())
	doc := documentoPronto(t, store)

	xml, err := svc.GerarXML(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "<MDFe/>", xml)
}

func TestConsultarPorChave_ValidaFormato(t *testing.T) {
	store := novoFakeStoreComCadastro()
	svc := NewService(store, novoFakeGateway(), nil)

	_, err := svc.ConsultarPorChave(context.Background(), "123")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidacao)
}

func TestConsultas_ResultadoSemSucessoViraErro(t *testing.T) {
	store := novoFakeStoreComCadastro()
	gw := novoFakeGateway()
	gw.responder("statusServico", &Resultado{Sucesso: false, Mensagem: "serviço indisponível"})
	svc := NewService(store, gw, nil)

	_, err := svc.StatusServico(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGateway)

	r, err := svc.ConsultarRecibo(context.Background(), "351000012345678")
	require.NoError(t, err)
	assert.True(t, r.Sucesso)
}

func TestDistribuicao(t *testing.T) {
	store := novoFakeStoreComCadastro()
	gw := novoFakeGateway()
	gw.responder("distUltimoNSU", &Resultado{Sucesso: true, Dados: map[string]string{"ultNSU": "000000000000042"}})
	svc := NewService(store, gw, nil)

	r, err := svc.DistribuicaoPorUltimoNSU(context.Background(), "SP", "12345678000195", "0")
	require.NoError(t, err)
	assert.Equal(t, "000000000000042", r.Dados["ultNSU"])
	assert.Equal(t, []string{"distUltimoNSU"}, gw.chamadas)
}
