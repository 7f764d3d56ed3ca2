package mdfe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

// Código de status da SEFAZ para autorização de uso
const cStatAutorizado = 100

// Service - casos de uso de transmissão. Acima do Gateway a convenção muda:
// resultado sem sucesso vira erro; quem chama o serviço só vê erro ou dado.
type Service struct {
	store Store
	gw    Gateway
	ini   *IniGenerator // opcional: sem ele a geração delega direto ao gateway pelo caminho XML
	sm    StateMachine
}

func NewService(store Store, gw Gateway, ini *IniGenerator) *Service {
	return &Service{store: store, gw: gw, ini: ini}
}

// GerarXML - gera o XML do documento pela ponte, devolvendo o conteúdo
func (s *Service) GerarXML(ctx context.Context, id uint) (string, error) {
	doc, err := s.carregarComChave(id)
	if err != nil {
		return "", err
	}

	r, err := s.gw.GerarXML(ctx, doc.ChaveAcesso, s.renderizarINI(doc))
	if err != nil {
		return "", err
	}
	if !r.Sucesso {
		return "", erroRemoto("gerar xml", r)
	}
	return r.Dados["xml"], nil
}

// Transmitir - envia o documento para a SEFAZ e grava o retorno. Em caso de
// autorização persiste protocolo, recibo e código de status; rejeição move o
// documento para rejeitado com o motivo.
func (s *Service) Transmitir(ctx context.Context, id uint) (*ds.MDFe, error) {
	doc, err := s.carregarComChave(id)
	if err != nil {
		return nil, err
	}

	if err := s.sm.Transicionar(doc, ds.MDFeStatusTransmitido, "enviado para a SEFAZ"); err != nil {
		return nil, err
	}

	r, err := s.gw.Transmitir(ctx, doc.ChaveAcesso, s.renderizarINI(doc))
	if err != nil {
		return nil, err
	}
	if !r.Sucesso {
		// Falha antes de chegar na SEFAZ: não persiste a transição
		return nil, erroRemoto("transmitir", r)
	}

	agora := time.Now()
	doc.DataTransmissao = &agora
	doc.Recibo = r.Dados["recibo"]
	doc.CodigoStatusSefaz, _ = strconv.Atoi(r.Dados["cstat"])
	doc.MotivoSefaz = r.Dados["motivo"]

	if doc.CodigoStatusSefaz == cStatAutorizado {
		doc.Protocolo = r.Dados["protocolo"]
		doc.DataAutorizacao = &agora
		if err := s.sm.Transicionar(doc, ds.MDFeStatusAutorizado, doc.MotivoSefaz); err != nil {
			return nil, err
		}
	} else {
		if err := s.sm.Transicionar(doc, ds.MDFeStatusRejeitado, doc.MotivoSefaz); err != nil {
			return nil, err
		}
	}

	if err := s.store.SaveMDFe(doc); err != nil {
		return nil, err
	}
	logrus.Infof("mdfe %d transmitido: cStat=%d %s", doc.ID, doc.CodigoStatusSefaz, doc.MotivoSefaz)
	return doc, nil
}

// Cancelar - evento de cancelamento. Exige chave de acesso definida e
// documento autorizado.
func (s *Service) Cancelar(ctx context.Context, id uint, justificativa string) (*ds.MDFe, error) {
	doc, err := s.carregarComChave(id)
	if err != nil {
		return nil, err
	}
	if doc.Status != ds.MDFeStatusAutorizado {
		return nil, fmt.Errorf("%w: cancelamento exige documento autorizado, status atual %s", ErrTransicaoInvalida, doc.Status)
	}
	if len(justificativa) < 15 {
		return nil, fmt.Errorf("%w: justificativa deve ter ao menos 15 caracteres", ErrValidacao)
	}

	r, err := s.gw.Cancelar(ctx, doc.ChaveAcesso, justificativa)
	if err != nil {
		return nil, err
	}
	if !r.Sucesso {
		return nil, erroRemoto("cancelar", r)
	}

	if p := r.Dados["protocolo"]; p != "" {
		doc.Protocolo = p
	}
	if err := s.sm.Transicionar(doc, ds.MDFeStatusCancelado, justificativa); err != nil {
		return nil, err
	}
	if err := s.store.SaveMDFe(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Encerrar - evento de encerramento no município de destino
func (s *Service) Encerrar(ctx context.Context, id uint, codigoMunicipio int, data time.Time) (*ds.MDFe, error) {
	doc, err := s.carregarComChave(id)
	if err != nil {
		return nil, err
	}
	if doc.Status != ds.MDFeStatusAutorizado {
		return nil, fmt.Errorf("%w: encerramento exige documento autorizado, status atual %s", ErrTransicaoInvalida, doc.Status)
	}
	if codigoMunicipio <= 0 {
		return nil, fmt.Errorf("%w: código do município de encerramento é obrigatório", ErrValidacao)
	}
	if data.IsZero() {
		data = time.Now()
	}

	r, err := s.gw.Encerrar(ctx, doc.ChaveAcesso, codigoMunicipio, data)
	if err != nil {
		return nil, err
	}
	if !r.Sucesso {
		return nil, erroRemoto("encerrar", r)
	}

	if err := s.sm.Transicionar(doc, ds.MDFeStatusEncerrado, fmt.Sprintf("encerrado no município %d", codigoMunicipio)); err != nil {
		return nil, err
	}
	if err := s.store.SaveMDFe(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ConsultarProtocolo - consulta de protocolo na SEFAZ
func (s *Service) ConsultarProtocolo(ctx context.Context, chave, protocolo string) (*Resultado, error) {
	return s.consultar(func() (*Resultado, error) { return s.gw.ConsultarProtocolo(ctx, chave, protocolo) }, "consultar protocolo")
}

// ConsultarPorChave - situação atual do documento na SEFAZ
func (s *Service) ConsultarPorChave(ctx context.Context, chave string) (*Resultado, error) {
	if !ValidarChaveAcesso(chave) {
		return nil, fmt.Errorf("%w: chave de acesso malformada", ErrValidacao)
	}
	return s.consultar(func() (*Resultado, error) { return s.gw.ConsultarPorChave(ctx, chave) }, "consultar chave")
}

// ConsultarRecibo - resultado de processamento de um recibo de lote
func (s *Service) ConsultarRecibo(ctx context.Context, recibo string) (*Resultado, error) {
	return s.consultar(func() (*Resultado, error) { return s.gw.ConsultarRecibo(ctx, recibo) }, "consultar recibo")
}

// StatusServico - disponibilidade do serviço da SEFAZ
func (s *Service) StatusServico(ctx context.Context) (*Resultado, error) {
	return s.consultar(func() (*Resultado, error) { return s.gw.StatusServico(ctx) }, "status do serviço")
}

// DistribuicaoPorNSU - documentos distribuídos a partir de um NSU
func (s *Service) DistribuicaoPorNSU(ctx context.Context, uf, cnpj, nsu string) (*Resultado, error) {
	return s.consultar(func() (*Resultado, error) { return s.gw.DistribuicaoPorNSU(ctx, uf, cnpj, nsu) }, "distribuição por nsu")
}

// DistribuicaoPorUltimoNSU - documentos desde o último NSU conhecido
func (s *Service) DistribuicaoPorUltimoNSU(ctx context.Context, uf, cnpj, ultimoNSU string) (*Resultado, error) {
	return s.consultar(func() (*Resultado, error) { return s.gw.DistribuicaoPorUltimoNSU(ctx, uf, cnpj, ultimoNSU) }, "distribuição por último nsu")
}

// DistribuicaoPorChave - distribuição pontual por chave de acesso
func (s *Service) DistribuicaoPorChave(ctx context.Context, uf, cnpj, chave string) (*Resultado, error) {
	return s.consultar(func() (*Resultado, error) { return s.gw.DistribuicaoPorChave(ctx, uf, cnpj, chave) }, "distribuição por chave")
}

// GerarPDF - DAMDFE em PDF (base64 em Dados["pdf"])
func (s *Service) GerarPDF(ctx context.Context, id uint) (string, error) {
	doc, err := s.carregarComChave(id)
	if err != nil {
		return "", err
	}
	r, err := s.gw.GerarPDF(ctx, doc.ChaveAcesso)
	if err != nil {
		return "", err
	}
	if !r.Sucesso {
		return "", erroRemoto("gerar pdf", r)
	}
	return r.Dados["pdf"], nil
}

func (s *Service) consultar(fn func() (*Resultado, error), op string) (*Resultado, error) {
	r, err := fn()
	if err != nil {
		return nil, err
	}
	if !r.Sucesso {
		return nil, erroRemoto(op, r)
	}
	return r, nil
}

func (s *Service) carregarComChave(id uint) (*ds.MDFe, error) {
	doc, err := s.store.GetMDFe(id)
	if err != nil {
		return nil, fmt.Errorf("%w: mdfe %d", ErrNotFound, id)
	}
	if doc.ChaveAcesso == "" {
		return nil, ErrChaveAusente
	}
	return doc, nil
}

func (s *Service) renderizarINI(doc *ds.MDFe) string {
	if s.ini == nil {
		return ""
	}
	return s.ini.Gerar(doc)
}

// erroRemoto - preserva código e mensagem da SEFAZ no erro para diagnóstico
func erroRemoto(op string, r *Resultado) error {
	if r.CodigoErro != "" {
		return fmt.Errorf("%w: %s: [%s] %s", ErrGateway, op, r.CodigoErro, r.Mensagem)
	}
	return fmt.Errorf("%w: %s: %s", ErrGateway, op, r.Mensagem)
}
