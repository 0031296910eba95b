package cmd

import (
	log "github.com/Sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stvp/rollbar"
	"gopkg.in/gin-contrib/cors.v1"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/pulseboard/listening-backend/api"
	"github.com/pulseboard/listening-backend/common"
	"github.com/pulseboard/listening-backend/utils"
	"github.com/pulseboard/listening-backend/version"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Listening dashboard backend server",
	Run:   serverFn,
}

func init() {
	RootCmd.AddCommand(serverCmd)
}

func serverFn(cmd *cobra.Command, args []string) {
	log.Infof("Starting listening backend server version %s", version.Version)
	common.Init()
	defer common.Shutdown()

	// Setup Rollbar
	rollbar.Token = viper.GetString("server.rollbar-token")
	rollbar.Environment = viper.GetString("server.rollbar-environment")
	rollbar.CodeVersion = version.Version

	// Setup gin
	gin.SetMode(viper.GetString("server.mode"))
	router := gin.New()
	router.Use(
		utils.LoggerMiddleware(),
		utils.DataStoresMiddleware(common.ENGINE, common.STORE),
		utils.ErrorHandlingMiddleware(),
		cors.Default(),
		utils.RecoveryMiddleware())

	api.SetupRoutes(router)

	log.Infoln("Running application")
	if cmd != nil {
		router.Run(viper.GetString("server.bind-address"))
	}

	if len(rollbar.Token) > 0 {
		rollbar.Wait()
	}
}
