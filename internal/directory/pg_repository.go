package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const patientColumns = `
	patient_id, first_name, last_name, dob, email, phone, city,
	preferred_doctor_name, preferred_location, insurance_carrier, insurance_member_id
`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.PatientID,
		&p.FirstName,
		&p.LastName,
		&p.DOB,
		&p.Email,
		&p.Phone,
		&p.City,
		&p.PreferredDoctorName,
		&p.PreferredLocation,
		&p.InsuranceCarrier,
		&p.InsuranceMemberID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) ListByDOB(ctx context.Context, dob string) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE dob = $1
		ORDER BY position
	`, dob)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPatients(rows)
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE patient_id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) ListAll(ctx context.Context) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPatients(rows)
}

func collectPatients(rows pgx.Rows) ([]Patient, error) {
	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
