package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

// parseID - converte o parâmetro de rota :id
func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		fail(ctx, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return uint(id), true
}

// ==================== Emitentes ====================

// GetEmitentes - lista emitentes com busca opcional por razão social ou CNPJ
// @Summary List emitters
// @Tags frota
// @Produce json
// @Param search query string false "Filter by company name or CNPJ"
// @Success 200 {object} map[string]interface{}
// @Router /emitentes [get]
func (h *Handler) GetEmitentes(ctx *gin.Context) {
	emitentes, err := h.Repository.GetEmitentes(ctx.Query("search"))
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao carregar emitentes")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "emitentes": emitentes})
}

func (h *Handler) GetEmitente(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	emitente, err := h.Repository.GetEmitente(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "emitente não encontrado")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "emitente": emitente})
}

func (h *Handler) CreateEmitente(ctx *gin.Context) {
	var emitente ds.Emitente
	if err := ctx.ShouldBindJSON(&emitente); err != nil {
		fail(ctx, http.StatusBadRequest, "dados do emitente inválidos")
		return
	}
	if emitente.RazaoSocial == "" || len(emitente.CNPJ) != 14 || emitente.UF == "" {
		fail(ctx, http.StatusBadRequest, "razão social, CNPJ (14 dígitos) e UF são obrigatórios")
		return
	}

	if err := h.Repository.CreateEmitente(&emitente); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao criar emitente")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "emitente": emitente})
}

func (h *Handler) UpdateEmitente(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	emitente, err := h.Repository.GetEmitente(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "emitente não encontrado")
		return
	}

	if err := ctx.ShouldBindJSON(emitente); err != nil {
		fail(ctx, http.StatusBadRequest, "dados do emitente inválidos")
		return
	}
	emitente.ID = id

	if err := h.Repository.UpdateEmitente(emitente); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao atualizar emitente")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "emitente": emitente})
}

func (h *Handler) DeleteEmitente(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.Repository.DeleteEmitente(id); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao remover emitente")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "emitente removido"})
}

// ==================== Veículos ====================

// GetVeiculos - lista veículos; filtros: search (placa) e tipo_unidade (tracao|reboque)
func (h *Handler) GetVeiculos(ctx *gin.Context) {
	veiculos, err := h.Repository.GetVeiculos(ctx.Query("search"), ctx.Query("tipo_unidade"))
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao carregar veículos")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "veiculos": veiculos})
}

func (h *Handler) GetVeiculo(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	veiculo, err := h.Repository.GetVeiculo(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "veículo não encontrado")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "veiculo": veiculo})
}

func (h *Handler) CreateVeiculo(ctx *gin.Context) {
	var veiculo ds.Veiculo
	if err := ctx.ShouldBindJSON(&veiculo); err != nil {
		fail(ctx, http.StatusBadRequest, "dados do veículo inválidos")
		return
	}
	if veiculo.Placa == "" {
		fail(ctx, http.StatusBadRequest, "placa é obrigatória")
		return
	}
	if veiculo.TipoUnidade == "" {
		veiculo.TipoUnidade = "tracao"
	}

	if err := h.Repository.CreateVeiculo(&veiculo); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao criar veículo")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "veiculo": veiculo})
}

func (h *Handler) UpdateVeiculo(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	veiculo, err := h.Repository.GetVeiculo(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "veículo não encontrado")
		return
	}

	if err := ctx.ShouldBindJSON(veiculo); err != nil {
		fail(ctx, http.StatusBadRequest, "dados do veículo inválidos")
		return
	}
	veiculo.ID = id

	if err := h.Repository.UpdateVeiculo(veiculo); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao atualizar veículo")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "veiculo": veiculo})
}

func (h *Handler) DeleteVeiculo(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.Repository.DeleteVeiculo(id); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao remover veículo")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "veículo removido"})
}

// ==================== Condutores ====================

func (h *Handler) GetCondutores(ctx *gin.Context) {
	condutores, err := h.Repository.GetCondutores(ctx.Query("search"))
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao carregar condutores")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "condutores": condutores})
}

func (h *Handler) GetCondutor(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	condutor, err := h.Repository.GetCondutor(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "condutor não encontrado")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "condutor": condutor})
}

func (h *Handler) CreateCondutor(ctx *gin.Context) {
	var condutor ds.Condutor
	if err := ctx.ShouldBindJSON(&condutor); err != nil {
		fail(ctx, http.StatusBadRequest, "dados do condutor inválidos")
		return
	}
	if condutor.Nome == "" || len(condutor.CPF) != 11 {
		fail(ctx, http.StatusBadRequest, "nome e CPF (11 dígitos) são obrigatórios")
		return
	}

	if err := h.Repository.CreateCondutor(&condutor); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao criar condutor")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "condutor": condutor})
}

func (h *Handler) UpdateCondutor(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	condutor, err := h.Repository.GetCondutor(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "condutor não encontrado")
		return
	}

	if err := ctx.ShouldBindJSON(condutor); err != nil {
		fail(ctx, http.StatusBadRequest, "dados do condutor inválidos")
		return
	}
	condutor.ID = id

	if err := h.Repository.UpdateCondutor(condutor); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao atualizar condutor")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "condutor": condutor})
}

func (h *Handler) DeleteCondutor(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.Repository.DeleteCondutor(id); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao remover condutor")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "condutor removido"})
}

// ==================== Contratantes ====================

func (h *Handler) GetContratantes(ctx *gin.Context) {
	contratantes, err := h.Repository.GetContratantes(ctx.Query("search"))
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao carregar contratantes")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "contratantes": contratantes})
}

func (h *Handler) CreateContratante(ctx *gin.Context) {
	var contratante ds.Contratante
	if err := ctx.ShouldBindJSON(&contratante); err != nil {
		fail(ctx, http.StatusBadRequest, "dados do contratante inválidos")
		return
	}
	if contratante.RazaoSocial == "" {
		fail(ctx, http.StatusBadRequest, "razão social é obrigatória")
		return
	}

	if err := h.Repository.CreateContratante(&contratante); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao criar contratante")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "contratante": contratante})
}

func (h *Handler) UpdateContratante(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	contratante, err := h.Repository.GetContratante(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "contratante não encontrado")
		return
	}

	if err := ctx.ShouldBindJSON(contratante); err != nil {
		fail(ctx, http.StatusBadRequest, "dados do contratante inválidos")
		return
	}
	contratante.ID = id

	if err := h.Repository.UpdateContratante(contratante); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao atualizar contratante")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "contratante": contratante})
}

func (h *Handler) DeleteContratante(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.Repository.DeleteContratante(id); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao remover contratante")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "contratante removido"})
}

// ==================== Seguradoras ====================

func (h *Handler) GetSeguradoras(ctx *gin.Context) {
	seguradoras, err := h.Repository.GetSeguradoras(ctx.Query("search"))
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao carregar seguradoras")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "seguradoras": seguradoras})
}

func (h *Handler) CreateSeguradora(ctx *gin.Context) {
	var seguradora ds.Seguradora
	if err := ctx.ShouldBindJSON(&seguradora); err != nil {
		fail(ctx, http.StatusBadRequest, "dados da seguradora inválidos")
		return
	}
	if seguradora.RazaoSocial == "" {
		fail(ctx, http.StatusBadRequest, "razão social é obrigatória")
		return
	}

	if err := h.Repository.CreateSeguradora(&seguradora); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao criar seguradora")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "seguradora": seguradora})
}

func (h *Handler) UpdateSeguradora(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	seguradora, err := h.Repository.GetSeguradora(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "seguradora não encontrada")
		return
	}

	if err := ctx.ShouldBindJSON(seguradora); err != nil {
		fail(ctx, http.StatusBadRequest, "dados da seguradora inválidos")
		return
	}
	seguradora.ID = id

	if err := h.Repository.UpdateSeguradora(seguradora); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao atualizar seguradora")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "seguradora": seguradora})
}

func (h *Handler) DeleteSeguradora(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.Repository.DeleteSeguradora(id); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao remover seguradora")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "seguradora removida"})
}

// ==================== Municípios ====================

// GetMunicipios - consulta da tabela IBGE; filtros: uf e search (nome)
func (h *Handler) GetMunicipios(ctx *gin.Context) {
	municipios, err := h.Repository.GetMunicipios(ctx.Query("uf"), ctx.Query("search"))
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao carregar municípios")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "municipios": municipios})
}

// SeedMunicipios - carga da tabela IBGE (apenas códigos ainda não cadastrados)
func (h *Handler) SeedMunicipios(ctx *gin.Context) {
	var municipios []ds.Municipio
	if err := ctx.ShouldBindJSON(&municipios); err != nil {
		fail(ctx, http.StatusBadRequest, "lista de municípios inválida")
		return
	}

	if err := h.Repository.SeedMunicipios(municipios); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao importar municípios")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "municípios importados", "total": len(municipios)})
}

// ==================== Viagens ====================

func (h *Handler) GetViagens(ctx *gin.Context) {
	veiculoID := 0
	if raw := ctx.Query("veiculo_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			fail(ctx, http.StatusBadRequest, "veiculo_id inválido")
			return
		}
		veiculoID = id
	}

	viagens, err := h.Repository.GetViagens(ctx.Query("status"), uint(veiculoID))
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao carregar viagens")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "viagens": viagens})
}

func (h *Handler) GetViagem(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	viagem, err := h.Repository.GetViagem(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "viagem não encontrada")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "viagem": viagem})
}

func (h *Handler) CreateViagem(ctx *gin.Context) {
	var viagem ds.Viagem
	if err := ctx.ShouldBindJSON(&viagem); err != nil {
		fail(ctx, http.StatusBadRequest, "dados da viagem inválidos")
		return
	}
	if viagem.VeiculoID == 0 || viagem.CondutorID == 0 {
		fail(ctx, http.StatusBadRequest, "veículo e condutor são obrigatórios")
		return
	}
	if viagem.Status == "" {
		viagem.Status = ds.ViagemStatusPlanejada
	}

	if err := h.Repository.CreateViagem(&viagem); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao criar viagem")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "viagem": viagem})
}

func (h *Handler) UpdateViagem(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	viagem, err := h.Repository.GetViagem(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "viagem não encontrada")
		return
	}

	if err := ctx.ShouldBindJSON(viagem); err != nil {
		fail(ctx, http.StatusBadRequest, "dados da viagem inválidos")
		return
	}
	viagem.ID = id

	if err := h.Repository.UpdateViagem(viagem); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao atualizar viagem")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "viagem": viagem})
}

func (h *Handler) DeleteViagem(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.Repository.DeleteViagem(id); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao remover viagem")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "viagem removida"})
}

// ==================== Manutenções ====================

func (h *Handler) GetManutencoes(ctx *gin.Context) {
	veiculoID := 0
	if raw := ctx.Query("veiculo_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			fail(ctx, http.StatusBadRequest, "veiculo_id inválido")
			return
		}
		veiculoID = id
	}

	manutencoes, err := h.Repository.GetManutencoes(uint(veiculoID))
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao carregar manutenções")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "manutencoes": manutencoes})
}

func (h *Handler) CreateManutencao(ctx *gin.Context) {
	var manutencao ds.Manutencao
	if err := ctx.ShouldBindJSON(&manutencao); err != nil {
		fail(ctx, http.StatusBadRequest, "dados da manutenção inválidos")
		return
	}
	if manutencao.VeiculoID == 0 {
		fail(ctx, http.StatusBadRequest, "veículo é obrigatório")
		return
	}

	if err := h.Repository.CreateManutencao(&manutencao); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao registrar manutenção")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "manutencao": manutencao})
}

func (h *Handler) UpdateManutencao(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	manutencao, err := h.Repository.GetManutencao(id)
	if err != nil {
		fail(ctx, http.StatusNotFound, "manutenção não encontrada")
		return
	}

	if err := ctx.ShouldBindJSON(manutencao); err != nil {
		fail(ctx, http.StatusBadRequest, "dados da manutenção inválidos")
		return
	}
	manutencao.ID = id

	if err := h.Repository.UpdateManutencao(manutencao); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao atualizar manutenção")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "manutencao": manutencao})
}

func (h *Handler) DeleteManutencao(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.Repository.DeleteManutencao(id); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao remover manutenção")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "manutenção removida"})
}

// ==================== Financeiro ====================

// parsePeriodo - lê os filtros opcionais date_from/date_to no formato 2006-01-02
func parsePeriodo(ctx *gin.Context) (*time.Time, *time.Time, bool) {
	var dateFrom, dateTo *time.Time

	if raw := ctx.Query("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fail(ctx, http.StatusBadRequest, "date_from inválido, use o formato AAAA-MM-DD")
			return nil, nil, false
		}
		dateFrom = &t
	}

	if raw := ctx.Query("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fail(ctx, http.StatusBadRequest, "date_to inválido, use o formato AAAA-MM-DD")
			return nil, nil, false
		}
		dateTo = &t
	}

	return dateFrom, dateTo, true
}

func (h *Handler) GetLancamentos(ctx *gin.Context) {
	dateFrom, dateTo, ok := parsePeriodo(ctx)
	if !ok {
		return
	}

	lancamentos, err := h.Repository.GetLancamentos(ctx.Query("tipo"), dateFrom, dateTo)
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao carregar lançamentos")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "lancamentos": lancamentos})
}

func (h *Handler) CreateLancamento(ctx *gin.Context) {
	var lancamento ds.Lancamento
	if err := ctx.ShouldBindJSON(&lancamento); err != nil {
		fail(ctx, http.StatusBadRequest, "dados do lançamento inválidos")
		return
	}
	if lancamento.Tipo != ds.LancamentoDespesa && lancamento.Tipo != ds.LancamentoReceita {
		fail(ctx, http.StatusBadRequest, "tipo deve ser despesa ou receita")
		return
	}
	if lancamento.Valor <= 0 {
		fail(ctx, http.StatusBadRequest, "valor deve ser maior que zero")
		return
	}

	if err := h.Repository.CreateLancamento(&lancamento); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao registrar lançamento")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "lancamento": lancamento})
}

func (h *Handler) DeleteLancamento(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.Repository.DeleteLancamento(id); err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao remover lançamento")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "lançamento removido"})
}

// GetResumoFinanceiro - totais de receitas/despesas e saldo no período
func (h *Handler) GetResumoFinanceiro(ctx *gin.Context) {
	dateFrom, dateTo, ok := parsePeriodo(ctx)
	if !ok {
		return
	}

	resumo, err := h.Repository.GetResumoFinanceiro(dateFrom, dateTo)
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao calcular resumo financeiro")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "resumo": resumo})
}
