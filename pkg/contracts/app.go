package contracts

import (
	"context"
	"time"
)

const (
	ConfigModuleName    = "config"
	LoggerModuleName    = "logger"
	ContainerModuleName = "container"
	DatabaseModuleName  = "database"
	CacheModuleName     = "cache"
)

type AppContext interface {
	Ctx() context.Context
	Container() Container
	Config() Config
	Logger() Logger
	AppName() string
	Version() string
	Environment() string
	StartTime() time.Time
	StopTime() time.Time
	IsRunning() bool
	Stop()
	AppRegistry() AppRegistry
}

type AppModule interface {
	Name() string
	Register(c Container) error
	Start(ctx AppContext) error
	Stop(ctx AppContext) error
}

type AppRegistry interface {
	Register(module AppModule) error
	All() []AppModule
	Shutdown(ctx AppContext) error
}

type App interface {
	Register(module AppModule) error
	Run() error
}
