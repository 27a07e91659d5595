// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"
	"sort"

	"github.com/gofiber/fiber/v2"
)

type statusBody struct {
	Name     string            `json:"name"`
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Failures map[string]string `json:"failures,omitempty"`
}

// statusRoutes installs the orchestrator facing endpoints. The healthiness
// route only proves the process is serving, the readiness route asks every
// registered probe.
func statusRoutes(app *fiber.App, name, version string, probes map[string]Probe) {
	app.Get("/-/healthz", func(c *fiber.Ctx) error {
		return c.JSON(statusBody{Name: name, Status: "OK", Version: version})
	})

	app.Get("/-/ready", func(c *fiber.Ctx) error {
		failures := make(map[string]string)
		for _, backend := range sortedProbeNames(probes) {
			if err := probes[backend](c.UserContext()); err != nil {
				failures[backend] = err.Error()
			}
		}

		if len(failures) > 0 {
			return c.Status(http.StatusServiceUnavailable).JSON(statusBody{
				Name:     name,
				Status:   "KO",
				Version:  version,
				Failures: failures,
			})
		}
		return c.JSON(statusBody{Name: name, Status: "OK", Version: version})
	})
}

func sortedProbeNames(probes map[string]Probe) []string {
	names := make([]string, 0, len(probes))
	for name := range probes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
