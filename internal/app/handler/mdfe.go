package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/mdfe"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/repository"
)

// falhaMDFe - traduz os erros sentinela do motor fiscal para códigos HTTP
func falhaMDFe(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, mdfe.ErrValidacao):
		fail(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, mdfe.ErrNotFound):
		fail(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, mdfe.ErrNaoEditavel),
		errors.Is(err, mdfe.ErrTransicaoInvalida),
		errors.Is(err, mdfe.ErrChaveAusente),
		errors.Is(err, mdfe.ErrNumeroDuplicado):
		fail(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, mdfe.ErrGateway):
		fail(ctx, http.StatusBadGateway, err.Error())
	default:
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro interno")
	}
}

// ==================== Consulta de documentos ====================

// GetMDFes - lista paginada de manifestos
// @Summary List MDFe documents
// @Tags mdfe
// @Produce json
// @Param emitente_id query int false "Filter by emitter"
// @Param status query string false "Filter by status"
// @Param serie query int false "Filter by series"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{}
// @Router /mdfe [get]
func (h *Handler) GetMDFes(ctx *gin.Context) {
	var filtro repository.FiltroMDFe

	if raw := ctx.Query("emitente_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			fail(ctx, http.StatusBadRequest, "emitente_id inválido")
			return
		}
		filtro.EmitenteID = uint(id)
	}
	if raw := ctx.Query("serie"); raw != "" {
		serie, err := strconv.Atoi(raw)
		if err != nil {
			fail(ctx, http.StatusBadRequest, "serie inválida")
			return
		}
		filtro.Serie = serie
	}
	filtro.Status = ctx.Query("status")
	filtro.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filtro.PageSize, _ = strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	dateFrom, dateTo, ok := parsePeriodo(ctx)
	if !ok {
		return
	}
	filtro.DateFrom = dateFrom
	filtro.DateTo = dateTo

	documentos, total, err := h.Repository.GetMDFes(filtro)
	if err != nil {
		logrus.Error(err)
		fail(ctx, http.StatusInternalServerError, "erro ao carregar manifestos")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"mdfes":     documentos,
		"total":     total,
		"page":      filtro.Page,
		"page_size": filtro.PageSize,
	})
}

// GetMDFe - documento completo com todas as coleções filhas
func (h *Handler) GetMDFe(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	doc, err := h.Repository.GetMDFe(id)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "mdfe": doc})
}

// ==================== Montagem ====================

// CreateMDFe - monta e grava um manifesto novo em rascunho
// @Summary Create MDFe draft
// @Description Assemble a new manifest: allocates the number, freezes the
// registry snapshot, derives the access key and stores it as draft
// @Tags mdfe
// @Accept json
// @Produce json
// @Param request body mdfe.DocumentoPayload true "Document payload"
// @Success 201 {object} mdfe.ResultadoGravacao
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Referenced registry not found"
// @Failure 409 {object} map[string]string "Number already taken"
// @Router /mdfe [post]
func (h *Handler) CreateMDFe(ctx *gin.Context) {
	var payload mdfe.DocumentoPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		fail(ctx, http.StatusBadRequest, "payload do manifesto inválido")
		return
	}
	payload.ID = 0

	resultado, err := h.Assembler.Criar(&payload)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":    "success",
		"mdfe":      resultado.Documento,
		"ignorados": resultado.Ignorados,
	})
}

// UpdateMDFe - remonta um documento editável substituindo todas as coleções
func (h *Handler) UpdateMDFe(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var payload mdfe.DocumentoPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		fail(ctx, http.StatusBadRequest, "payload do manifesto inválido")
		return
	}

	resultado, err := h.Assembler.Atualizar(id, &payload)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"mdfe":      resultado.Documento,
		"ignorados": resultado.Ignorados,
	})
}

// SalvarRascunhoMDFe - upsert em uma chamada só: cria sem ID, atualiza com ID
func (h *Handler) SalvarRascunhoMDFe(ctx *gin.Context) {
	var payload mdfe.DocumentoPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		fail(ctx, http.StatusBadRequest, "payload do manifesto inválido")
		return
	}

	resultado, err := h.Assembler.SalvarRascunho(&payload)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	code := http.StatusOK
	if payload.ID == 0 {
		code = http.StatusCreated
	}
	ctx.JSON(code, gin.H{
		"status":    "ok",
		"mdfe":      resultado.Documento,
		"ignorados": resultado.Ignorados,
	})
}

// DeleteMDFe - remoção lógica; documento autorizado exige cancelamento antes
func (h *Handler) DeleteMDFe(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.Repository.DeleteMDFe(id); err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "manifesto removido"})
}

// ==================== Ciclo de vida fiscal ====================

// TransmitirMDFe - envia o manifesto para autorização na SEFAZ
// @Summary Transmit MDFe
// @Description Send the manifest through the fiscal bridge; cStat 100 marks
// it authorized, anything else rejected
// @Tags mdfe
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Failure 502 {object} map[string]string "Bridge unreachable"
// @Router /mdfe/{id}/transmitir [post]
func (h *Handler) TransmitirMDFe(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	doc, err := h.Fiscal.Transmitir(ctx.Request.Context(), id)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "mdfe": doc})
}

// CancelarMDFe - cancela um manifesto autorizado (justificativa mínima de 15 caracteres)
func (h *Handler) CancelarMDFe(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req struct {
		Justificativa string `json:"justificativa"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	doc, err := h.Fiscal.Cancelar(ctx.Request.Context(), id, req.Justificativa)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "mdfe": doc})
}

// EncerrarMDFe - encerra um manifesto autorizado no município informado
func (h *Handler) EncerrarMDFe(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req struct {
		CodigoMunicipio int        `json:"codigo_municipio"`
		Data            *time.Time `json:"data"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	data := time.Now()
	if req.Data != nil {
		data = *req.Data
	}

	doc, err := h.Fiscal.Encerrar(ctx.Request.Context(), id, req.CodigoMunicipio, data)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "mdfe": doc})
}

// ==================== Consultas SEFAZ ====================

func (h *Handler) ConsultarProtocoloMDFe(ctx *gin.Context) {
	var req struct {
		Chave     string `json:"chave"`
		Protocolo string `json:"protocolo"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	resultado, err := h.Fiscal.ConsultarProtocolo(ctx.Request.Context(), req.Chave, req.Protocolo)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "resultado": resultado})
}

func (h *Handler) ConsultarMDFePorChave(ctx *gin.Context) {
	chave := ctx.Param("chave")

	resultado, err := h.Fiscal.ConsultarPorChave(ctx.Request.Context(), chave)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "resultado": resultado})
}

func (h *Handler) ConsultarReciboMDFe(ctx *gin.Context) {
	recibo := ctx.Param("recibo")
	if recibo == "" {
		fail(ctx, http.StatusBadRequest, "recibo é obrigatório")
		return
	}

	resultado, err := h.Fiscal.ConsultarRecibo(ctx.Request.Context(), recibo)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "resultado": resultado})
}

func (h *Handler) StatusServicoMDFe(ctx *gin.Context) {
	resultado, err := h.Fiscal.StatusServico(ctx.Request.Context())
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "resultado": resultado})
}

// ==================== Distribuição DF-e ====================

func (h *Handler) DistribuicaoDFe(ctx *gin.Context) {
	var req struct {
		UF        string `json:"uf"`
		CNPJ      string `json:"cnpj"`
		NSU       string `json:"nsu"`
		UltimoNSU string `json:"ultimo_nsu"`
		Chave     string `json:"chave"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	var (
		resultado *mdfe.Resultado
		err       error
	)
	switch {
	case req.Chave != "":
		resultado, err = h.Fiscal.DistribuicaoPorChave(ctx.Request.Context(), req.UF, req.CNPJ, req.Chave)
	case req.NSU != "":
		resultado, err = h.Fiscal.DistribuicaoPorNSU(ctx.Request.Context(), req.UF, req.CNPJ, req.NSU)
	default:
		resultado, err = h.Fiscal.DistribuicaoPorUltimoNSU(ctx.Request.Context(), req.UF, req.CNPJ, req.UltimoNSU)
	}
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "resultado": resultado})
}

// ==================== Artefatos ====================

// GerarXMLMDFe - XML assinado do documento, obtido via ponte fiscal
func (h *Handler) GerarXMLMDFe(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	xml, err := h.Fiscal.GerarXML(ctx.Request.Context(), id)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, "application/xml", []byte(xml))
}

// GerarPDFMDFe - DAMDFE em PDF (base64), obtido via ponte fiscal
func (h *Handler) GerarPDFMDFe(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	pdf, err := h.Fiscal.GerarPDF(ctx.Request.Context(), id)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "pdf_base64": pdf})
}

// GerarINIMDFe - renderização do documento no layout INI da ACBr
// @Summary Render MDFe as ACBr INI
// @Tags mdfe
// @Produce plain
// @Param id path int true "Document ID"
// @Success 200 {string} string "INI text"
// @Failure 404 {object} map[string]string "Not found"
// @Router /mdfe/{id}/ini [get]
func (h *Handler) GerarINIMDFe(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	doc, err := h.Repository.GetMDFe(id)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.Ini.Gerar(doc)))
}

// ConferirINIMDFe - verificação de conformidade de um INI arbitrário
func (h *Handler) ConferirINIMDFe(ctx *gin.Context) {
	texto, err := ctx.GetRawData()
	if err != nil || len(texto) == 0 {
		fail(ctx, http.StatusBadRequest, "corpo vazio, envie o texto INI")
		return
	}

	relatorio := h.Conformidade.Conferir(string(texto))
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "relatorio": relatorio})
}

// ConferirINIDocumento - gera o INI do documento persistido e o confere
func (h *Handler) ConferirINIDocumento(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	doc, err := h.Repository.GetMDFe(id)
	if err != nil {
		falhaMDFe(ctx, err)
		return
	}

	relatorio := h.Conformidade.Conferir(h.Ini.Gerar(doc))
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "relatorio": relatorio})
}
