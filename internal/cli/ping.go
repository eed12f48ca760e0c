package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nimrod29/padel-bot/internal/availability"
	"github.com/nimrod29/padel-bot/internal/config"
	"github.com/nimrod29/padel-bot/internal/logging"
	"github.com/nimrod29/padel-bot/internal/notify"
	"github.com/nimrod29/padel-bot/internal/providers/lazuz"
	"github.com/nimrod29/padel-bot/internal/providers/padelisrael"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping [padelisrael|lazuz|telegram]",
		Short: "Test connectivity to a provider or the notification channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			switch args[0] {
			case "telegram":
				tg := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
				if err := tg.Send(ctx, "🤖 *Padel Monitor Bot is working!*\n\n✅ Test message sent successfully."); err != nil {
					return err
				}
			default:
				var p availability.Provider
				switch args[0] {
				case "padelisrael":
					p = padelisrael.New(padelisrael.Config{
						BaseURL:        cfg.PadelIsraelBaseURL,
						BasicAuth:      cfg.PadelIsraelAuth,
						Token:          cfg.PadelIsraelToken,
						PingFacilityID: firstID(cfg.Facilities),
					}, log)
				case "lazuz":
					p = lazuz.New(lazuz.Config{
						BaseURL:       cfg.LazuzBaseURL,
						BearerToken:   cfg.LazuzToken,
						AppCheckToken: cfg.LazuzAppCheck,
						PingClubID:    firstID(cfg.Clubs),
					}, log)
				default:
					return fmt.Errorf("unknown target: %s", args[0])
				}
				if err := p.Ping(ctx); err != nil {
					return err
				}
			}
			fmt.Printf("%s: ok\n", args[0])
			return nil
		},
	}
}

// firstID picks the ping probe resource from the configured set, if any.
func firstID(m map[string]string) string {
	if ids := config.SortedIDs(m); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
