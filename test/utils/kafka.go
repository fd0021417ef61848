package testutils

import (
	"bytes"
	"os/exec"
	"strings"
	"testing"
)

// CreateKafkaTopic creates topic in the dockerised broker. Tests are
// skipped when the container is not running.
func CreateKafkaTopic(t *testing.T, topic string) {
	t.Helper()

	cmd := exec.Command(
		"docker", "exec", "kafka",
		"kafka-topics", "--create", "--if-not-exists",
		"--topic", topic,
		"--bootstrap-server", "localhost:9092",
		"--replication-factor", "1",
		"--partitions", "1",
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		t.Skipf("cannot create topic %s: %v\n%s", topic, err, strings.TrimSpace(out.String()))
	}
	t.Logf("topic %s ready", topic)
}
