package mdfe

import "fmt"

// NumberAllocator - alocação sequencial de números por (emitente, série).
//
// A leitura do máximo e a gravação não são atômicas; a unicidade real é
// garantida pelo índice único do banco, e o assembler tenta de novo uma vez
// quando a gravação devolve ErrNumeroDuplicado.
type NumberAllocator struct {
	store Store
}

func NewNumberAllocator(store Store) *NumberAllocator {
	return &NumberAllocator{store: store}
}

// ProximoNumero - devolve o próximo número da série. Números explícitos
// (maior que zero) são usados como vieram; quem informa é responsável por
// não colidir.
func (a *NumberAllocator) ProximoNumero(emitenteID uint, serie, explicito int) (int, error) {
	if explicito > 0 {
		return explicito, nil
	}

	max, err := a.store.MaxNumero(emitenteID, serie)
	if err != nil {
		return 0, fmt.Errorf("consultar último número da série %d: %w", serie, err)
	}
	return max + 1, nil
}
