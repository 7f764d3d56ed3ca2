package mdfe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Resultado - forma uniforme de retorno do gateway. Falhas esperadas do lado
// remoto (rejeição, serviço fora) vêm como Sucesso=false com código e
// mensagem preservados; o erro Go fica para falhas de transporte.
type Resultado struct {
	Sucesso    bool              `json:"sucesso"`
	Mensagem   string            `json:"mensagem"`
	CodigoErro string            `json:"codigo_erro,omitempty"`
	Dados      map[string]string `json:"dados,omitempty"`
}

// Gateway - contrato com a autoridade fiscal (SEFAZ). A implementação
// concreta conversa com uma ponte ACBr; nos testes entra um fake.
type Gateway interface {
	GerarXML(ctx context.Context, chave, ini string) (*Resultado, error)
	Transmitir(ctx context.Context, chave, ini string) (*Resultado, error)
	ConsultarProtocolo(ctx context.Context, chave, protocolo string) (*Resultado, error)
	ConsultarPorChave(ctx context.Context, chave string) (*Resultado, error)
	ConsultarRecibo(ctx context.Context, recibo string) (*Resultado, error)
	Cancelar(ctx context.Context, chave, justificativa string) (*Resultado, error)
	Encerrar(ctx context.Context, chave string, codigoMunicipio int, data time.Time) (*Resultado, error)
	StatusServico(ctx context.Context) (*Resultado, error)
	DistribuicaoPorNSU(ctx context.Context, uf, cnpj, nsu string) (*Resultado, error)
	DistribuicaoPorUltimoNSU(ctx context.Context, uf, cnpj, ultimoNSU string) (*Resultado, error)
	DistribuicaoPorChave(ctx context.Context, uf, cnpj, chave string) (*Resultado, error)
	GerarPDF(ctx context.Context, chave string) (*Resultado, error)
}

// HTTPGateway - cliente da ponte ACBr via JSON sobre HTTP.
//
// Consultas (idempotentes) ganham uma retentativa; transmissão, cancelamento
// e encerramento nunca são repetidos às cegas, uma segunda tentativa depois
// de um sucesso não observado duplicaria o evento na SEFAZ.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) GerarXML(ctx context.Context, chave, ini string) (*Resultado, error) {
	return g.post(ctx, "/mdfe/gerar", map[string]string{"chave": chave, "ini": ini})
}

func (g *HTTPGateway) Transmitir(ctx context.Context, chave, ini string) (*Resultado, error) {
	return g.post(ctx, "/mdfe/transmitir", map[string]string{"chave": chave, "ini": ini})
}

func (g *HTTPGateway) ConsultarProtocolo(ctx context.Context, chave, protocolo string) (*Resultado, error) {
	return g.consulta(ctx, "/mdfe/consultar/protocolo", map[string]string{"chave": chave, "protocolo": protocolo})
}

func (g *HTTPGateway) ConsultarPorChave(ctx context.Context, chave string) (*Resultado, error) {
	return g.consulta(ctx, "/mdfe/consultar/chave", map[string]string{"chave": chave})
}

func (g *HTTPGateway) ConsultarRecibo(ctx context.Context, recibo string) (*Resultado, error) {
	return g.consulta(ctx, "/mdfe/consultar/recibo", map[string]string{"recibo": recibo})
}

func (g *HTTPGateway) Cancelar(ctx context.Context, chave, justificativa string) (*Resultado, error) {
	return g.post(ctx, "/mdfe/cancelar", map[string]string{"chave": chave, "justificativa": justificativa})
}

func (g *HTTPGateway) Encerrar(ctx context.Context, chave string, codigoMunicipio int, data time.Time) (*Resultado, error) {
	return g.post(ctx, "/mdfe/encerrar", map[string]string{
		"chave":     chave,
		"municipio": fmt.Sprintf("%d", codigoMunicipio),
		"data":      data.Format("2006-01-02"),
	})
}

func (g *HTTPGateway) StatusServico(ctx context.Context) (*Resultado, error) {
	return g.consulta(ctx, "/mdfe/status-servico", map[string]string{})
}

func (g *HTTPGateway) DistribuicaoPorNSU(ctx context.Context, uf, cnpj, nsu string) (*Resultado, error) {
	return g.consulta(ctx, "/mdfe/distribuicao/nsu", map[string]string{"uf": uf, "cnpj": cnpj, "nsu": nsu})
}

func (g *HTTPGateway) DistribuicaoPorUltimoNSU(ctx context.Context, uf, cnpj, ultimoNSU string) (*Resultado, error) {
	return g.consulta(ctx, "/mdfe/distribuicao/ult-nsu", map[string]string{"uf": uf, "cnpj": cnpj, "ult_nsu": ultimoNSU})
}

func (g *HTTPGateway) DistribuicaoPorChave(ctx context.Context, uf, cnpj, chave string) (*Resultado, error) {
	return g.consulta(ctx, "/mdfe/distribuicao/chave", map[string]string{"uf": uf, "cnpj": cnpj, "chave": chave})
}

func (g *HTTPGateway) GerarPDF(ctx context.Context, chave string) (*Resultado, error) {
	return g.consulta(ctx, "/mdfe/pdf", map[string]string{"chave": chave})
}

// consulta - operação idempotente de leitura: uma retentativa após falha de
// transporte, com espera curta.
func (g *HTTPGateway) consulta(ctx context.Context, path string, body map[string]string) (*Resultado, error) {
	res, err := g.post(ctx, path, body)
	if err == nil {
		return res, nil
	}
	logrus.Warnf("mdfe gateway: consulta %s falhou (%v), tentando de novo", path, err)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}
	return g.post(ctx, path, body)
}

func (g *HTTPGateway) post(ctx context.Context, path string, body map[string]string) (*Resultado, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	var resultado Resultado
	if err := json.NewDecoder(resp.Body).Decode(&resultado); err != nil {
		return nil, fmt.Errorf("%w: resposta inválida da ponte: %v", ErrGateway, err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: ponte respondeu %d: %s", ErrGateway, resp.StatusCode, resultado.Mensagem)
	}
	return &resultado, nil
}
