package api

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/auth"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/config"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/dsn"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/handler"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/mdfe"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/middleware"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/repository"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/service"
)

func StartServer() {
	log.Println("Starting server")

	conf, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	postgresString := dsn.FromEnv()

	repo, err := repository.New(postgresString)
	if err != nil {
		logrus.Fatalf("error initializing repository: %v", err)
	}

	if err := repo.Migrate(); err != nil {
		logrus.Fatalf("error running migrations: %v", err)
	}

	jwtService := auth.NewJWTService(
		conf.JWTSecret,
		conf.JWTAccessTokenExpire,
		conf.JWTRefreshTokenExpire,
	)

	authService := service.NewAuthService(repo, jwtService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	gateway := mdfe.NewHTTPGateway(conf.GatewayBaseURL, conf.GatewayTimeout)
	assembler := mdfe.NewAssembler(repo)
	fiscal := mdfe.NewService(repo, gateway, mdfe.NewIniGenerator())

	h := handler.NewHandler(repo, authService, authMiddleware, assembler, fiscal)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Autenticação
	r.POST("/api/users/register", h.RegisterUser)
	r.POST("/api/users/login", h.LoginUser)
	r.POST("/api/users/refresh", h.RefreshToken)
	r.POST("/api/users/logout", h.AuthMiddleware.RequireAuth(), h.LogoutUser)
	r.GET("/api/users/profile", h.AuthMiddleware.RequireAuth(), h.GetUserProfile)
	r.PUT("/api/users/profile", h.AuthMiddleware.RequireAuth(), h.UpdateUserProfile)

	// Cadastros da frota (auth)
	cad := r.Group("/api")
	cad.Use(h.AuthMiddleware.RequireAuth())
	{
		cad.GET("/emitentes", h.GetEmitentes)
		cad.GET("/emitentes/:id", h.GetEmitente)
		cad.POST("/emitentes", h.CreateEmitente)
		cad.PUT("/emitentes/:id", h.UpdateEmitente)
		cad.DELETE("/emitentes/:id", h.DeleteEmitente)

		cad.GET("/veiculos", h.GetVeiculos)
		cad.GET("/veiculos/:id", h.GetVeiculo)
		cad.POST("/veiculos", h.CreateVeiculo)
		cad.PUT("/veiculos/:id", h.UpdateVeiculo)
		cad.DELETE("/veiculos/:id", h.DeleteVeiculo)

		cad.GET("/condutores", h.GetCondutores)
		cad.GET("/condutores/:id", h.GetCondutor)
		cad.POST("/condutores", h.CreateCondutor)
		cad.PUT("/condutores/:id", h.UpdateCondutor)
		cad.DELETE("/condutores/:id", h.DeleteCondutor)

		cad.GET("/contratantes", h.GetContratantes)
		cad.POST("/contratantes", h.CreateContratante)
		cad.PUT("/contratantes/:id", h.UpdateContratante)
		cad.DELETE("/contratantes/:id", h.DeleteContratante)

		cad.GET("/seguradoras", h.GetSeguradoras)
		cad.POST("/seguradoras", h.CreateSeguradora)
		cad.PUT("/seguradoras/:id", h.UpdateSeguradora)
		cad.DELETE("/seguradoras/:id", h.DeleteSeguradora)

		cad.GET("/municipios", h.GetMunicipios)
		cad.POST("/municipios/seed", h.SeedMunicipios)
	}

	// Operação da frota (auth)
	op := r.Group("/api")
	op.Use(h.AuthMiddleware.RequireAuth())
	{
		op.GET("/viagens", h.GetViagens)
		op.GET("/viagens/:id", h.GetViagem)
		op.POST("/viagens", h.CreateViagem)
		op.PUT("/viagens/:id", h.UpdateViagem)
		op.DELETE("/viagens/:id", h.DeleteViagem)

		op.GET("/manutencoes", h.GetManutencoes)
		op.POST("/manutencoes", h.CreateManutencao)
		op.PUT("/manutencoes/:id", h.UpdateManutencao)
		op.DELETE("/manutencoes/:id", h.DeleteManutencao)

		op.GET("/lancamentos", h.GetLancamentos)
		op.POST("/lancamentos", h.CreateLancamento)
		op.DELETE("/lancamentos/:id", h.DeleteLancamento)
		op.GET("/financeiro/resumo", h.GetResumoFinanceiro)
	}

	// MDFe (auth)
	fiscalGroup := r.Group("/api/mdfe")
	fiscalGroup.Use(h.AuthMiddleware.RequireAuth())
	{
		fiscalGroup.GET("", h.GetMDFes)
		fiscalGroup.GET("/:id", h.GetMDFe)
		fiscalGroup.POST("", h.CreateMDFe)
		fiscalGroup.PUT("/:id", h.UpdateMDFe)
		fiscalGroup.POST("/rascunho", h.SalvarRascunhoMDFe)
		fiscalGroup.DELETE("/:id", h.DeleteMDFe)

		fiscalGroup.GET("/:id/xml", h.GerarXMLMDFe)
		fiscalGroup.GET("/:id/pdf", h.GerarPDFMDFe)
		fiscalGroup.GET("/:id/ini", h.GerarINIMDFe)
		fiscalGroup.GET("/:id/ini/conferir", h.ConferirINIDocumento)
		fiscalGroup.POST("/ini/conferir", h.ConferirINIMDFe)

		// operações fiscais exigem papel de gestor
		fiscalGroup.POST("/:id/transmitir", h.AuthMiddleware.RequireGestor(), h.TransmitirMDFe)
		fiscalGroup.POST("/:id/cancelar", h.AuthMiddleware.RequireGestor(), h.CancelarMDFe)
		fiscalGroup.POST("/:id/encerrar", h.AuthMiddleware.RequireGestor(), h.EncerrarMDFe)

		fiscalGroup.POST("/consultar/protocolo", h.ConsultarProtocoloMDFe)
		fiscalGroup.GET("/consultar/chave/:chave", h.ConsultarMDFePorChave)
		fiscalGroup.GET("/consultar/recibo/:recibo", h.ConsultarReciboMDFe)
		fiscalGroup.GET("/status-servico", h.StatusServicoMDFe)
		fiscalGroup.POST("/distribuicao", h.DistribuicaoDFe)
	}

	serverAddress := fmt.Sprintf("%s:%d", conf.ServiceHost, conf.ServicePort)
	if conf.EnableHTTPS {
		if err := r.RunTLS(serverAddress, conf.CertFile, conf.KeyFile); err != nil {
			logrus.Fatalf("server error: %v", err)
		}
	} else {
		if err := r.Run(serverAddress); err != nil {
			logrus.Fatalf("server error: %v", err)
		}
	}
	log.Println("Server down")
}
