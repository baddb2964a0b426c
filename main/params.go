// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix = "ALSC"

	versionKey                = "version"
	configFileKey             = "config-file"
	dbTypeKey                 = "db-type"
	dbDirKey                  = "db-dir"
	genesisFileKey            = "genesis-file"
	httpHostKey               = "http-host"
	httpPortKey               = "http-port"
	logLevelKey               = "log-level"
	logFormatKey              = "log-format"
	buildIntervalKey          = "build-interval"
	mempoolSizeKey            = "mempool-size"
	allowUnsignedTransfersKey = "allow-unsigned-transfers"

	memDBType  = "memdb"
	badgerType = "badger"
)

var errUnknownDBType = errors.New("unknown db type")

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("alscvm", flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints the version and quits")
	fs.String(configFileKey, "", "Optional config file (json, yaml or toml)")
	fs.String(dbTypeKey, badgerType, fmt.Sprintf("Database backend, %q or %q", memDBType, badgerType))
	fs.String(dbDirKey, "./alsc-db", "Directory of the badger database")
	fs.String(genesisFileKey, "", "TOML genesis file, only read the first time the database is used")
	fs.String(httpHostKey, "127.0.0.1", "Address the HTTP server listens on")
	fs.Uint(httpPortKey, 9650, "Port the HTTP server listens on")
	fs.String(logLevelKey, "info", "Log level (crit, error, warn, info, debug)")
	fs.String(logFormatKey, "terminal", "Log format, terminal or json")
	fs.Duration(buildIntervalKey, time.Second, "How often pending txs are executed")
	fs.Int(mempoolSizeKey, 1024, "Maximum number of pending txs")
	fs.Bool(allowUnsignedTransfersKey, false, "If true, alsc.transfer trusts the caller supplied origin")

	return fs
}

// getViper returns the viper environment for the daemon. Flags win over
// ALSC_ prefixed environment variables, which win over the config file.
func getViper(args []string) (*viper.Viper, error) {
	v := viper.New()

	fs := pflag.NewFlagSet("alscvm", pflag.ContinueOnError)
	fs.AddGoFlagSet(buildFlagSet())
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile := v.GetString(configFileKey); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("couldn't read config file %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Config is the daemon configuration
type Config struct {
	PrintVersion           bool
	DBType                 string
	DBDir                  string
	GenesisFile            string
	HTTPHost               string
	HTTPPort               uint
	LogLevel               string
	LogFormat              string
	BuildInterval          time.Duration
	MempoolSize            int
	AllowUnsignedTransfers bool
}

func getConfig(v *viper.Viper) (Config, error) {
	config := Config{
		PrintVersion:           v.GetBool(versionKey),
		DBType:                 strings.ToLower(v.GetString(dbTypeKey)),
		DBDir:                  v.GetString(dbDirKey),
		GenesisFile:            v.GetString(genesisFileKey),
		HTTPHost:               v.GetString(httpHostKey),
		HTTPPort:               v.GetUint(httpPortKey),
		LogLevel:               v.GetString(logLevelKey),
		LogFormat:              v.GetString(logFormatKey),
		BuildInterval:          v.GetDuration(buildIntervalKey),
		MempoolSize:            v.GetInt(mempoolSizeKey),
		AllowUnsignedTransfers: v.GetBool(allowUnsignedTransfersKey),
	}

	switch config.DBType {
	case memDBType, badgerType:
	default:
		return Config{}, fmt.Errorf("%w: %q", errUnknownDBType, config.DBType)
	}
	if config.BuildInterval <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", buildIntervalKey, config.BuildInterval)
	}
	return config, nil
}
