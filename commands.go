package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ilivestrong/phonebook/internal"
	"github.com/ilivestrong/phonebook/internal/persist"
	mq "github.com/ilivestrong/phonebook/internal/rabbitmq"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type routerFunc func(*internal.Phonebook, *internal.Renderer, internal.ServerOptions) http.Handler

// NewRootCommand creates the phonebook CLI.
func NewRootCommand() *cobra.Command {
	v := newConfig()

	cmd := &cobra.Command{
		Use:          "phonebook",
		Short:        "Phonebook lookup and management services",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadDotenv()
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "log every SQL statement")
	bindFlag(v, cmd, "verbose")

	cmd.AddCommand(newServeCommand(v, "lookup", "Run the read-only lookup service", LookupPort, false, internal.NewLookupRouter))
	cmd.AddCommand(newServeCommand(v, "manage", "Run the add/update/delete service", ManagePort, true, internal.NewManageRouter))
	cmd.AddCommand(newInitDBCommand(v))
	cmd.AddCommand(newImportCommand(v))
	cmd.AddCommand(newHistoryCommand(v))

	return cmd
}

// bindFlag binds a persistent flag of cmd to the viper key of the same name.
func bindFlag(v *viper.Viper, cmd *cobra.Command, name string) {
	if err := v.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
		log.Fatalf("failed to bind --%s flag, %v", name, err)
	}
}

func newServeCommand(v *viper.Viper, use, short string, defaultPort int, initSchema bool, newRouter routerFunc) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := loadOptions(v)
			if err != nil {
				return err
			}

			db := bootDB(options)
			if initSchema {
				bootSchema(db)
			}
			pb := newPhonebook(db, bootMQ(options))

			views, err := internal.NewRenderer()
			if err != nil {
				return fmt.Errorf("failed to parse templates: %w", err)
			}

			handler := newRouter(pb, views, internal.ServerOptions{
				DeveloperName: options.DeveloperName,
				CORSOrigins:   options.CORSOrigins,
				Ping:          func() error { return persist.Ping(db) },
			})

			addr := net.JoinHostPort(host, strconv.Itoa(port))
			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			log.Printf("%s service listening at %s\n", use, addr)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "interface to bind")
	cmd.Flags().IntVarP(&port, "port", "p", defaultPort, "port to listen on")
	return cmd
}

func newInitDBCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the phonebook tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := loadOptions(v)
			if err != nil {
				return err
			}
			if err := persist.InitSchema(bootDB(options)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "phonebook schema ready")
			return nil
		},
	}
}

func newImportCommand(v *viper.Viper) *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add people from an .xlsx workbook (column A name, column B number)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := loadOptions(v)
			if err != nil {
				return err
			}

			db := bootDB(options)
			bootSchema(db)
			pb := newPhonebook(db, bootMQ(options))

			report, err := pb.ImportWorkbook(cmd.Context(), args[0], sheet, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", report.Imported, report.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet to read (default: first sheet)")
	return cmd
}

func newHistoryCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "history NAME",
		Short: "Show the recorded changes for a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := loadOptions(v)
			if err != nil {
				return err
			}

			pb := newPhonebook(bootDB(options), mq.NewNoopPublisher())
			events, err := pb.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no history for %s\n", internal.TitleName(args[0]))
				return nil
			}
			for _, e := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-14s id=%d number=%s\n",
					e.CreatedAt.Format(time.RFC3339), e.EventType, e.RecordID, e.Number)
			}
			return nil
		},
	}
}

func newPhonebook(db *gorm.DB, publisher mq.Publisher) *internal.Phonebook {
	return internal.NewPhonebook(
		persist.NewPhoneRecordRepository(db),
		persist.NewEventRepository(db),
		publisher,
		internal.NewNameGuard(),
	)
}
