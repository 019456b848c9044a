package cmd

import (
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRouter struct {
	app *fiber.App
}

func (r staticRouter) SetupRoutes()               {}
func (r staticRouter) Start(address string) error { return r.app.Listen(address) }
func (r staticRouter) GetApp() *fiber.App         { return r.app }

func TestShutdownDrainsRequestsBeforeClosingResources(t *testing.T) {
	var (
		mu     sync.Mutex
		events []string
	)
	record := func(event string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
	}

	started := make(chan struct{})
	app := fiber.New()
	app.Post("/sale-record", func(c fiber.Ctx) error {
		close(started)
		time.Sleep(200 * time.Millisecond)
		record("request finished")
		return c.SendString("ok")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	respErr := make(chan error, 1)
	go func() {
		resp, err := http.Post("http://"+ln.Addr().String()+"/sale-record", "application/json", nil)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				err = assert.AnError
			}
		}
		respErr <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}

	a := &Application{
		router: staticRouter{app: app},
		config: &config.AppConfig{Server: config.ServerConfig{ShutdownTimeout: 5 * time.Second}},
		stopFuncs: []func(){
			func() { record("monitor stopped") },
		},
		closeFuncs: []func(){
			func() { record("store closed") },
			func() { record("cache closed") },
		},
	}
	a.shutdown()

	require.NoError(t, <-respErr)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"request finished", "monitor stopped", "store closed", "cache closed"}, events)
}
