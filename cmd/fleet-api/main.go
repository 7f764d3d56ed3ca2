// @title Fleet MDFe API
// @version 1.0
// @description API de gestão de frota e emissão de MDFe (manifesto eletrônico de documentos fiscais)
// @host localhost:8083
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token for authentication. Format: 'Bearer <token>'
package main

import (
	"github.com/sirupsen/logrus"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/api"

	_ "github.com/Nicolasirrigpenapolis/NewSistema-sub000/docs"
)

func main() {
	logrus.Info("Application start up")
	api.StartServer()
	logrus.Info("Application terminated")
}
