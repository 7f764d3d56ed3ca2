package mdfe

import "github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"

// CongelarSnapshot - copia os campos de exibição das entidades referenciadas
// para o documento. Roda em toda criação e atualização, depois de resolvidas
// as referências; os valores refletem o estado das entidades naquele momento
// e não são atualizados quando a fonte muda depois.
func CongelarSnapshot(doc *ds.MDFe, emitente *ds.Emitente, veiculo *ds.Veiculo, condutor *ds.Condutor) {
	doc.EmitenteRazaoSocial = emitente.RazaoSocial
	doc.EmitenteCNPJ = emitente.CNPJ
	doc.EmitenteUF = emitente.UF

	doc.VeiculoPlaca = veiculo.Placa
	doc.VeiculoTara = veiculo.Tara
	doc.VeiculoUF = veiculo.UF

	doc.CondutorNome = condutor.Nome
	doc.CondutorCPF = condutor.CPF
}
