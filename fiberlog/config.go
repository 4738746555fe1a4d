package fiberlog

import "github.com/sirupsen/logrus"

type Config struct {
	Logger *logrus.Logger
	Tags   []string
	// SkipPaths запросы, которые не пишутся в лог (health check)
	SkipPaths []string
}

var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		TagRequestID,
		TagUserID,
	},
}
