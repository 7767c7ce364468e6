package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinova/clinic-booking/internal/db"
)

const (
	doctorCount  = 8
	patientCount = 50
	scheduleDays = 14
)

var locations = []string{
	"Clinic A",
	"Clinic B",
	"Downtown Branch",
	"Northside Branch",
}

var insuranceCarriers = []string{
	"BlueShield",
	"Aetna",
	"UnitedHealth",
	"Cigna",
	"Humana",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := createSchema(context.Background(), pool); err != nil {
		log.Fatalf("create schema: %v", err)
	}
	if err := seedDoctors(context.Background(), pool); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), pool); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Println("seed complete")
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		position BIGSERIAL PRIMARY KEY,
		patient_id TEXT UNIQUE NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		dob TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		preferred_doctor_name TEXT NOT NULL DEFAULT '',
		preferred_location TEXT NOT NULL DEFAULT '',
		insurance_carrier TEXT NOT NULL DEFAULT '',
		insurance_member_id TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		doctor_id TEXT PRIMARY KEY,
		doctor_name TEXT NOT NULL,
		location TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS availability_slots (
		doctor_id TEXT NOT NULL REFERENCES doctors (doctor_id),
		date TEXT NOT NULL,
		slot_start TEXT NOT NULL,
		slot_end TEXT NOT NULL,
		location TEXT NOT NULL,
		booked BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (doctor_id, date, slot_start, slot_end)
	)`,
	`CREATE TABLE IF NOT EXISTS holidays (
		doctor_id TEXT NOT NULL REFERENCES doctors (doctor_id),
		date TEXT NOT NULL,
		PRIMARY KEY (doctor_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		booking_id TEXT NOT NULL,
		patient_id TEXT NOT NULL,
		patient_name TEXT NOT NULL,
		doctor_id TEXT NOT NULL,
		doctor_name TEXT NOT NULL,
		date TEXT NOT NULL,
		slot_start TEXT NOT NULL,
		slot_end TEXT NOT NULL,
		location TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (booking_id, status)
	)`,
	`CREATE TABLE IF NOT EXISTS communication_log (
		id BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
		channel TEXT NOT NULL,
		recipient TEXT NOT NULL,
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		booking_id TEXT
	)`,
}

func createSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool) error {
	log.Printf("seeding %d doctors with %d days of availability", doctorCount, scheduleDays)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 1; i <= doctorCount; i++ {
		doctorID := fmt.Sprintf("D%d", i)
		name := "Dr. " + gofakeit.LastName()
		location := locations[gofakeit.Number(0, len(locations)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (doctor_id, doctor_name, location)
			VALUES ($1, $2, $3)
			ON CONFLICT (doctor_id) DO NOTHING
		`, doctorID, name, location)
		if err != nil {
			return err
		}

		// One or two random days off inside the window.
		holidays := make(map[string]bool)
		for h := 0; h < gofakeit.Number(1, 2); h++ {
			day := time.Now().AddDate(0, 0, gofakeit.Number(1, scheduleDays)).Format("2006-01-02")
			holidays[day] = true

			_, err := tx.Exec(ctx, `
				INSERT INTO holidays (doctor_id, date)
				VALUES ($1, $2)
				ON CONFLICT (doctor_id, date) DO NOTHING
			`, doctorID, day)
			if err != nil {
				return err
			}
		}

		// No slots are generated for holiday dates.
		for d := 1; d <= scheduleDays; d++ {
			date := time.Now().AddDate(0, 0, d).Format("2006-01-02")
			if holidays[date] {
				continue
			}

			for hour := 9; hour < 17; hour++ {
				for _, min := range []int{0, 30} {
					start := fmt.Sprintf("%02d:%02d", hour, min)
					end := fmt.Sprintf("%02d:%02d", hour, min+30)
					if min == 30 {
						end = fmt.Sprintf("%02d:%02d", hour+1, 0)
					}

					_, err := tx.Exec(ctx, `
						INSERT INTO availability_slots (doctor_id, date, slot_start, slot_end, location, booked)
						VALUES ($1, $2, $3, $4, $5, FALSE)
						ON CONFLICT (doctor_id, date, slot_start, slot_end) DO NOTHING
					`, doctorID, date, start, end, location)
					if err != nil {
						return err
					}
				}
			}
		}
	}

	return tx.Commit(ctx)
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool) error {
	log.Printf("seeding %d patients", patientCount)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 1; i <= patientCount; i++ {
		patientID := fmt.Sprintf("P%03d", i)
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		dob := gofakeit.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC),
		).Format("2006-01-02")

		_, err := tx.Exec(ctx, `
			INSERT INTO patients (
				patient_id, first_name, last_name, dob, email, phone, city,
				preferred_doctor_name, preferred_location, insurance_carrier, insurance_member_id
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (patient_id) DO NOTHING
		`,
			patientID,
			first,
			last,
			dob,
			gofakeit.Email(),
			gofakeit.Phone(),
			gofakeit.City(),
			"Dr. "+gofakeit.LastName(),
			locations[gofakeit.Number(0, len(locations)-1)],
			insuranceCarriers[gofakeit.Number(0, len(insuranceCarriers)-1)],
			gofakeit.LetterN(3)+gofakeit.DigitN(6),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
