package monitoring

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func setupSyslog(logger *logrus.Logger, syslogName string) error {
	return errors.New("syslog forwarding is not supported on windows")
}
