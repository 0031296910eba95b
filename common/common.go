package common

import (
	"database/sql"
	"time"

	log "github.com/Sirupsen/logrus"
	_ "github.com/lib/pq"
	"github.com/spf13/viper"
	"github.com/volatiletech/sqlboiler/v4/boil"

	"github.com/pulseboard/listening-backend/dashboard"
	"github.com/pulseboard/listening-backend/events"
	"github.com/pulseboard/listening-backend/store"
	"github.com/pulseboard/listening-backend/utils"
)

var (
	DB     *sql.DB
	ESC    *dashboard.ESManager
	ENGINE *dashboard.ESEngine
	STORE  *store.Store
)

func Init() time.Time {
	return InitWithDefault(nil)
}

func InitWithDefault(defaultDb *sql.DB) time.Time {
	var err error
	clock := time.Now()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if defaultDb != nil {
		DB = defaultDb
	} else {
		log.Info("Setting up connection to topics DB")
		DB, err = sql.Open("postgres", viper.GetString("postgres.url"))
		utils.Must(err)
		utils.Must(DB.Ping())
	}
	boil.SetDB(DB)
	boil.DebugMode = viper.GetString("server.boiler-mode") == "debug"
	STORE = store.NewStore(DB)

	log.Info("Setting up connection to ElasticSearch")
	url := viper.GetString("elasticsearch.url")
	ESC = dashboard.MakeESManager(url)

	esc, err := ESC.GetClient()
	if esc != nil && err == nil {
		esversion, err := esc.ElasticsearchVersion(url)
		utils.Must(err)
		log.Infof("Elasticsearch version %s", esversion)
		ENGINE = dashboard.NewESEngine(esc)
	}

	utils.Must(events.Init())

	return clock
}

func Shutdown() {
	events.Close()
	utils.Must(DB.Close())
	ESC.Stop()
}
