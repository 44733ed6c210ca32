package stores_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/oscfit/oscfit/pkg/stores"
)

// ExampleNewFitStore demonstrates creating and initializing a fit store.
func ExampleNewFitStore() {
	dir, err := os.MkdirTemp("", "oscfit-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	store, err := stores.NewFitStore(stores.Config{
		Path:            filepath.Join(dir, "fits.db"),
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		log.Fatal(err)
	}

	if err := store.Migrate(ctx); err != nil {
		log.Fatal(err)
	}

	defer store.Close()

	fmt.Println("Store initialized successfully")
	// Output: Store initialized successfully
}

// ExampleFitStore_RecordStep demonstrates recording a minimizer trajectory.
func ExampleFitStore_RecordStep() {
	dir, err := os.MkdirTemp("", "oscfit-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	store, _ := stores.NewFitStore(stores.Config{Path: filepath.Join(dir, "fits.db")})
	ctx := context.Background()
	_ = store.Init(ctx)
	_ = store.Migrate(ctx)
	defer store.Close()

	run := &stores.FitRun{
		SettingsSource: "template_settings.json",
		Hierarchy:      stores.HierarchyNormal,
		FreeParams:     `["deltam31","theta23"]`,
	}
	if err := store.CreateRun(ctx, run); err != nil {
		log.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		step := &stores.FitStep{
			RunID:       run.ID,
			Iteration:   i,
			LLH:         -1500.0 + float64(i)*10,
			ParamValues: `{"deltam31":0.00246,"theta23":0.6745}`,
		}
		if err := store.RecordStep(ctx, step); err != nil {
			log.Fatal(err)
		}
	}

	steps, err := store.ListSteps(ctx, run.ID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("recorded %d steps\n", len(steps))
	// Output: recorded 3 steps
}
