package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
)

// configureLogging sends log output to w at the given level. Report output
// never goes through the logger.
func configureLogging(w io.Writer, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetOutput(w)
	logrus.SetLevel(lvl)
	return nil
}
