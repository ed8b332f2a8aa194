/*
Copyright © 2024 the SYNAER authors.
This file is part of SYNAER.

SYNAER is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SYNAER is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SYNAER.  If not, see <http://www.gnu.org/licenses/>.
*/

package synaerutil

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a logger that writes to out and, if logFile is not
// empty, to a size-rotated log file. The returned Closer closes the log
// file and must be called when logging is done.
func NewLogger(out io.Writer, logFile, level string) (*logrus.Logger, io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("synaer: invalid LogLevel: %v", err)
	}
	log := logrus.New()
	log.Level = lvl
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	if logFile == "" {
		log.Out = out
		return log, nopCloser{}, nil
	}
	w := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    64, // MB
		MaxBackups: 3,
	}
	log.Out = io.MultiWriter(out, w)
	return log, w, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
