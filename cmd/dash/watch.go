package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dashrun/dash/manager"
	"github.com/dashrun/dash/manager/config/provider/file"
	"github.com/dashrun/dash/manager/config/provider/kubernetes"
)

const (
	envConfigFile   = "DASH_CONFIG_FILE"
	envConfigMap    = "DASH_CONFIG_MAP"
	envPodNamespace = "MY_POD_NAMESPACE"
)

type watchCommand struct {
	ConfigFile []string `long:"config-file" description:"Plan config file path or glob, repeatable (env DASH_CONFIG_FILE)"`
	ConfigMap  string   `long:"config-map" description:"Plan config ConfigMap as name:key (env DASH_CONFIG_MAP)"`
}

func (c *watchCommand) Execute([]string) error {
	c.applyFromEnv()

	if err := c.validate(); err != nil {
		return err
	}
	provider, err := c.newConfigProvider()
	if err != nil {
		return fmt.Errorf("create config provider: %v", err)
	}

	runManager(manager.New(provider))
	return nil
}

func (c *watchCommand) applyFromEnv() {
	if v, ok := os.LookupEnv(envConfigFile); ok && len(c.ConfigFile) == 0 {
		c.ConfigFile = strings.Split(v, ",")
	}
	if v, ok := os.LookupEnv(envConfigMap); ok && c.ConfigMap == "" {
		c.ConfigMap = v
	}
}

func (c *watchCommand) validate() error {
	if len(c.ConfigFile) == 0 && c.ConfigMap == "" {
		return errors.New("configuration source not set, use --config-file or --config-map")
	}
	if len(c.ConfigFile) > 0 && c.ConfigMap != "" {
		return errors.New("--config-file and --config-map are mutually exclusive")
	}
	return nil
}

func (c *watchCommand) newConfigProvider() (manager.ConfigProvider, error) {
	if len(c.ConfigFile) > 0 {
		return file.NewProvider(c.ConfigFile)
	}

	name, key, err := parseConfigMap(c.ConfigMap)
	if err != nil {
		return nil, err
	}
	return kubernetes.NewProvider(kubernetes.Config{
		Namespace: os.Getenv(envPodNamespace),
		ConfigMap: name,
		Key:       key,
	})
}

func parseConfigMap(v string) (name, key string, err error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("config-map parameter bad syntax ('%s')", v)
	}
	return parts[0], parts[1], nil
}

func runManager(mgr *manager.Manager) {
	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	wg.Add(1)
	go func() { defer wg.Done(); mgr.Run(ctx) }()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-ch
	logger.Info().Msgf("received %s signal (%d). Terminating...", sig, sig)
	cancel()
	wg.Wait()
}
