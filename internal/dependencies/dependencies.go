package dependencies

import (
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"github.com/bran921007/Import-CSV-on-zip-file/internal/infrastructure/storage"
)

type Dependencies struct {
	Logger     *logrus.Logger
	DB         *gorm.DB
	Files      storage.FileManager
	RabbitConn *amqp.Connection
	RabbitCh   *amqp.Channel
}
