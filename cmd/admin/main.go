// Command admin is the caseworker CLI. It is the only writer of report
// status; the web client just displays what it finds here.
package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fairvio/backend/internal/models"
	"fairvio/backend/internal/storage"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "reports":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin reports <user_id>")
			os.Exit(1)
		}
		if err := listReports(storageSvc, os.Args[2]); err != nil {
			log.Fatalf("Error listing reports: %v", err)
		}

	case "show":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin show <report_id>")
			os.Exit(1)
		}
		if err := showReport(storageSvc, os.Args[2]); err != nil {
			log.Fatalf("Error showing report: %v", err)
		}

	case "set-status":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-status <report_id> <status>")
			os.Exit(1)
		}
		status := models.ReportStatus(os.Args[3])
		if !models.IsValidStatus(status) {
			fmt.Printf("Invalid status %q. Valid: %v\n", os.Args[3], models.ValidStatuses)
			os.Exit(1)
		}
		if err := storageSvc.UpdateReportStatus(os.Args[2], status); err != nil {
			log.Fatalf("Error updating status: %v", err)
		}
		fmt.Printf("Report %s moved to %s.\n", os.Args[2], status)

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: admin <command> [args]")
	fmt.Println("  reports <user_id>                list a user's reports")
	fmt.Println("  show <report_id>                 print one report with evidence")
	fmt.Println("  set-status <report_id> <status>  move a report through review")
}

func listReports(s *storage.Service, userID string) error {
	reports, err := s.ListReportsByUser(userID)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println("No reports found.")
		return nil
	}
	for _, r := range reports {
		fmt.Printf("%s  %-22s %-15s %s\n", r.ID, r.IssueType, r.Status, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func showReport(s *storage.Service, reportID string) error {
	r, err := s.GetReportByID(reportID)
	if err != nil {
		return err
	}
	fmt.Printf("Report %s (%s)\n", r.ID, r.Status)
	fmt.Printf("  Type:     %s — %s\n", r.IssueType, r.IssueTitle)
	fmt.Printf("  When:     %s\n", r.IncidentDate)
	fmt.Printf("  Where:    %s\n", r.IncidentLocation)
	fmt.Printf("  Who:      %s\n", r.InvolvedParties)
	fmt.Printf("  What:     %s\n", r.Description)
	if r.EvidenceDescription != "" {
		fmt.Printf("  Evidence: %s\n", r.EvidenceDescription)
	}

	files, err := s.ListEvidenceByReport(r.ID)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Printf("  File:     %s (%s, %d bytes)\n", f.StoragePath, f.ContentType, f.SizeBytes)
	}
	return nil
}
