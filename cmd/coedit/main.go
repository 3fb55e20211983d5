package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"coedit/internal/document"
	"coedit/internal/scheduler"
	"coedit/internal/server"
	"coedit/internal/store"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

func main() {
	versionFlag := flag.Bool("version", false, "Print the version of the program")
	addrFlag := flag.String("addr", ":8081", "HTTP listen address")
	dbFlag := flag.String("db", "coedit.db", "Path to the snapshot database")
	redisFlag := flag.String("redis", "", "Redis address for the cross-instance relay (disabled when empty)")
	logfileFlag := flag.String("logfile", "", "Path to log file")
	intervalFlag := flag.Duration("snapshot-interval", 30*time.Second, "Interval between document snapshots")
	flag.Parse()

	// Version tag
	if *versionFlag {
		fmt.Printf("coedit server version %s\n", Version)
		return
	}

	// Logging
	if *logfileFlag != "" {
		logFile, err := os.OpenFile(*logfileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, logFile))
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	}
	commonlog.Configure(1, nil)
	log.Println("Starting coedit server...")

	// Snapshot store
	db, err := store.NewSQLiteStore(*dbFlag)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer db.Close()

	manager := document.NewManager()

	// Periodic snapshots run off the apply path
	sched := scheduler.NewScheduler(10)
	sched.Run()
	snapshotTask := scheduler.SnapshotTask(manager, db)
	go sched.SchedulePeriodic(*intervalFlag, snapshotTask)

	// Optional cross-instance relay
	var relay *server.Relay
	if *redisFlag != "" {
		relay, err = server.NewRelay(*redisFlag)
		if err != nil {
			log.Fatalf("Failed to connect relay: %v", err)
		}
		defer relay.Close()
	}

	srv := server.NewServer(manager, relay)

	go func() {
		log.Printf("coedit listening on %s", *addrFlag)
		if err := http.ListenAndServe(*addrFlag, srv.Router()); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs

	// Take a final snapshot before exiting
	log.Println("Shutting down...")
	sched.ScheduleTask(snapshotTask)
	sched.Stop()
}
