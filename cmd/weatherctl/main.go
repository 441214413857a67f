// weatherctl is a terminal client for the weather service. It drives the
// session store the same way the web UI would: one fetch per lookup, a
// bounded search history, and the last settled result as the visible state.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mkravets/city-weather-service/internal/client"
	"github.com/mkravets/city-weather-service/internal/store"
	"github.com/mkravets/city-weather-service/internal/weather"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "weather service base URL")
	units := flag.String("units", "metric", "unit system: metric, imperial or standard")
	flag.Parse()

	api := client.New(*server, &http.Client{Timeout: 60 * time.Second})
	api.SetUnits(weather.Units(*units))

	st := store.New(api, store.DefaultHistoryLimit)

	if cities := flag.Args(); len(cities) > 0 {
		for _, city := range cities {
			lookup(st, city)
		}
		return
	}

	fmt.Println("enter a city name (or 'history', 'clear', 'quit'):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return
		case "history":
			for _, city := range st.Snapshot().History {
				fmt.Println(" ", city)
			}
		case "clear":
			st.ClearHistory()
		default:
			lookup(st, line)
		}
	}
}

func lookup(st *store.Store, city string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	st.AddToHistory(city)
	st.Fetch(ctx, city)

	state := st.Snapshot()
	if state.Status != store.StatusSuccess {
		fmt.Fprintf(os.Stderr, "%s: %s\n", city, state.Err)
		return
	}

	r := state.Record
	fmt.Printf("%s, %s: %d%s, %s\n", r.City, r.Country, r.Temperature, r.Units.Temperature, r.Weather.Description)
	fmt.Printf("  feels like %d%s, humidity %d%%, wind %.2f %s\n", r.FeelsLike, r.Units.Temperature, r.Humidity, r.Wind.Speed, r.Units.WindSpeed)
	fmt.Printf("  local time %s, sunrise %s, sunset %s\n",
		r.LocalTime.Format("15:04"), r.Sun.Sunrise.Format("15:04"), r.Sun.Sunset.Format("15:04"))
}
