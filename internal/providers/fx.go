package providers

import (
	"github.com/smallbiznis/gareline/internal/providers/email"
	"github.com/smallbiznis/gareline/internal/providers/pdf"
	"github.com/smallbiznis/gareline/internal/providers/slack"
	"github.com/smallbiznis/gareline/internal/providers/spreadsheet"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	slack.Module,
	pdf.Module,
	spreadsheet.Module,
)
