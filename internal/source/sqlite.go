package source

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/casperlab/infradash/internal/inventory"
)

// LoadSQLite reads machine records from the machines table of a SQLite
// database maintained by other lab tooling. The connection is opened only
// long enough to read the table; nothing is ever written.
func LoadSQLite(path string) ([]inventory.Machine, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open inventory db: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Exec("PRAGMA query_only=ON"); err != nil {
		return nil, fmt.Errorf("set query_only: %w", err)
	}

	// rowid order preserves the order machines were recorded in, which is
	// what top-N tie-breaking keys on.
	rows, err := conn.Query(`
		SELECT name, location, threads, storage_nvme, storage_disk, ram_gb, swap, gpu
		FROM machines ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query machines: %w", err)
	}
	defer rows.Close()

	var machines []inventory.Machine
	for rows.Next() {
		var (
			m   inventory.Machine
			ram sql.NullFloat64
		)
		if err := rows.Scan(
			&m.Name, &m.Location, &m.Threads,
			&m.NVMe, &m.Disk, &ram, &m.Swap, &m.GPU,
		); err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		if ram.Valid {
			v := ram.Float64
			m.RAMGB = &v
		}
		machines = append(machines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read machines: %w", err)
	}
	return machines, nil
}
