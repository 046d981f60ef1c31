// Command admin is a small end-to-end exercise of the geoserver client
// against a running instance: it builds a categorized style, uploads it,
// and wires a layer into a layer group with that style.
//
// Connection settings come from the environment (optionally a .env file):
//
//	GEOSERVER_URL       base URL, e.g. http://localhost:8080/geoserver
//	GEOSERVER_USER      basic auth user
//	GEOSERVER_PASSWORD  basic auth password
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mapcadet/geoserver"
	"github.com/mapcadet/geoserver/sld"
)

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	log, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	opts := geoserver.DefaultOptions()
	if v := os.Getenv("GEOSERVER_URL"); v != "" {
		opts.BaseURL = v
	}
	if v := os.Getenv("GEOSERVER_USER"); v != "" {
		opts.Username = v
	}
	if v := os.Getenv("GEOSERVER_PASSWORD"); v != "" {
		opts.Password = v
	}
	opts.Logger = log

	client := geoserver.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	const workspace = "demo"
	if err := client.CreateWorkspace(ctx, workspace); err != nil {
		// An existing workspace is not a failure for a demo run.
		log.Warn("create workspace", zap.Error(err))
	}

	err = client.CreateCategorizedStyle(ctx, "land-use", workspace, "category",
		[]string{"forest", "water", "urban", "agriculture"},
		sld.Palette("set2"), sld.GeometryPolygon)
	if err != nil {
		log.Fatal("create categorized style", zap.Error(err))
	}
	log.Info("uploaded style", zap.String("style", "land-use"))

	err = client.CreateLayerGroup(ctx, geoserver.GroupOptions{
		Name:      "overview",
		Title:     "Land overview",
		Layers:    []string{workspace + ":landcover"},
		Workspace: workspace,
		Keywords:  []string{"demo"},
	})
	switch {
	case err == nil:
		log.Info("created layer group", zap.String("group", "overview"))
	case errors.Is(err, geoserver.ErrExists):
		log.Info("layer group already present", zap.String("group", "overview"))
	default:
		log.Fatal("create layer group", zap.Error(err))
	}

	err = client.AttachLayer(ctx, "overview", workspace, "landcover", workspace, "land-use")
	if err != nil {
		var replaceErr *geoserver.ReplaceError
		if errors.As(err, &replaceErr) {
			log.Fatal("group replace rejected",
				zap.Int("status", replaceErr.StatusCode),
				zap.String("body", replaceErr.Body))
		}
		log.Fatal("attach layer", zap.Error(err))
	}
	log.Info("attached layer", zap.String("layer", workspace+":landcover"))
}
