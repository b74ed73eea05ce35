package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"hellomap/internal/config"
	"hellomap/internal/domain"
	"hellomap/internal/geo"
	"hellomap/internal/mapclient"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadClientConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample(zap.IncreaseLevel(zap.WarnLevel))
	defer logger.Sync()

	locator := geo.NewChain(logger,
		geo.Stage{Name: "device", Locator: geo.NewStaticLocator(cfg.Latitude, cfg.Longitude), Timeout: cfg.GeoTimeout},
		geo.Stage{Name: "ip", Locator: geo.NewIPLocator(cfg.GeoIPURL, nil), Timeout: cfg.GeoTimeout},
	)
	api := mapclient.NewAPIClient(cfg.APIURL, nil)
	session := mapclient.NewSession(logger, api, locator)

	fmt.Println("===== Welcome to HelloMap! =====")
	fmt.Println("Leave a message with your location!")

	messages, err := session.Load(ctx)
	if err != nil {
		fmt.Printf("Could not load messages: %v\n", err)
	}
	renderMarkers(os.Stdout, mapclient.Markers(session.State(), messages))

	if session.State().Phase == mapclient.PhaseLocationUnavailable {
		fmt.Println("We couldn't find your location, so sending is disabled.")
		os.Exit(1)
	}

	for {
		name := prompt(reader, "Name: ")
		text := prompt(reader, "Message: ")
		state := session.SetInput(name, text)
		if !mapclient.CanSubmit(state) {
			printValidation(state.Draft())
			continue
		}
		switch sendWithRetry(ctx, reader, session) {
		case sendConfirmed:
		case sendRejected:
			continue
		default:
			return
		}
		break
	}

	fmt.Println("Thanks for submitting a message!")
	if messages, err := api.ListMessages(ctx); err == nil {
		renderMarkers(os.Stdout, mapclient.Markers(session.State(), messages))
	}
}

type sendOutcome int

const (
	sendConfirmed sendOutcome = iota
	sendRejected
	sendAborted
)

// sendWithRetry envía y, ante un fallo de red o de servidor, ofrece reintentar.
func sendWithRetry(ctx context.Context, reader *bufio.Reader, session *mapclient.Session) sendOutcome {
	send := session.Submit
	for {
		sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		_, err := send(sendCtx)
		cancel()
		if err == nil {
			return sendConfirmed
		}

		var apiErr *mapclient.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Validation():
			for _, f := range apiErr.Fields {
				fmt.Printf("  %s: %s %s\n", f.Field, f.Rule, f.Param)
			}
			return sendRejected
		case errors.Is(err, mapclient.ErrNetwork):
			fmt.Println("Network problem while sending your message.")
		default:
			fmt.Printf("Could not send your message: %v\n", err)
		}

		answer := prompt(reader, "Retry? [y/N]: ")
		if !strings.EqualFold(answer, "y") {
			return sendAborted
		}
		send = session.Retry
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		os.Exit(0)
	}
	return strings.TrimRight(line, "\r\n")
}

func printValidation(draft domain.MessageDraft) {
	err := domain.ValidateDraft(draft)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		fmt.Println("Message not ready to send.")
		return
	}
	for _, f := range verr.Fields {
		switch f.Field {
		case "name":
			fmt.Printf("  name must be %d-%d characters\n", domain.NameMinLen, domain.NameMaxLen)
		case "message":
			fmt.Printf("  message must be %d-%d characters\n", domain.MessageMinLen, domain.MessageMaxLen)
		default:
			fmt.Printf("  %s: %s %s\n", f.Field, f.Rule, f.Param)
		}
	}
}

func renderMarkers(w io.Writer, markers []mapclient.Marker) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Marker", "Latitude", "Longitude", "Popup"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, m := range markers {
		label := string(m.Kind)
		popup := m.Popup
		if m.Kind == mapclient.MarkerUser {
			popup = "(you are here)"
		}
		table.Append([]string{
			label,
			fmt.Sprintf("%.4f", m.Location.Latitude),
			fmt.Sprintf("%.4f", m.Location.Longitude),
			popup,
		})
	}
	table.Render()
}
