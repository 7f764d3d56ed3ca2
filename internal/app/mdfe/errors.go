package mdfe

import "errors"

// Erros sentinela do motor de MDFe. Os handlers mapeiam:
// ErrValidacao -> 400, ErrNotFound -> 404, ErrNaoEditavel/ErrTransicaoInvalida/
// ErrChaveAusente -> 409, ErrGateway -> 502.
var (
	ErrValidacao         = errors.New("dados inválidos")
	ErrNotFound          = errors.New("registro não encontrado")
	ErrNaoEditavel       = errors.New("mdfe só pode ser alterado em rascunho ou em digitação")
	ErrTransicaoInvalida = errors.New("transição de status inválida")
	ErrChaveAusente      = errors.New("chave de acesso não definida")
	ErrNumeroDuplicado   = errors.New("número já utilizado para o emitente e série")
	ErrGateway           = errors.New("falha na comunicação com a SEFAZ")
)
