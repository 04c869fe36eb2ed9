package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	l := New("", "")
	require.Equal(t, logrus.WarnLevel, l.GetLevel())
	require.IsType(t, &logrus.TextFormatter{}, l.Formatter)

	l = New("DEBUG", "json")
	require.Equal(t, logrus.DebugLevel, l.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	l = New("verbose", "")
	require.Equal(t, logrus.WarnLevel, l.GetLevel())
}

func TestLoggerIsShared(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), Logger())
	require.Equal(t, "chaincode", Logger().Data["module"])
}
