package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/orchestrator"
)

const helpText = `commands:
  search [criteria] [by=partNumber|description|supplierSku] [branches=SEA,PDX] [available] [size=N]
  sort <field>:<asc|desc> | sort none
  page <n>
  peak <partNumber>
  state
  help
  quit`

type commandKind int

const (
	cmdNone commandKind = iota
	cmdSearch
	cmdSort
	cmdPage
	cmdPeak
	cmdState
	cmdHelp
	cmdQuit
)

type command struct {
	kind       commandKind
	form       orchestrator.Form
	sort       *models.SortSpec
	page       int
	partNumber string
}

func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{kind: cmdNone}, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "search", "s":
		form, err := parseForm(args)
		if err != nil {
			return command{}, err
		}
		return command{kind: cmdSearch, form: form}, nil

	case "sort":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: sort <field>:<asc|desc> | sort none")
		}
		if strings.EqualFold(args[0], "none") {
			return command{kind: cmdSort}, nil
		}
		spec, err := models.ParseSort(args[0])
		if err != nil {
			return command{}, err
		}
		return command{kind: cmdSort, sort: spec}, nil

	case "page", "p":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: page <n>")
		}
		page, err := strconv.Atoi(args[0])
		if err != nil || page < 0 {
			return command{}, fmt.Errorf("page must be a non-negative integer")
		}
		return command{kind: cmdPage, page: page}, nil

	case "peak":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: peak <partNumber>")
		}
		return command{kind: cmdPeak, partNumber: args[0]}, nil

	case "state":
		return command{kind: cmdState}, nil
	case "help", "?":
		return command{kind: cmdHelp}, nil
	case "quit", "exit", "q":
		return command{kind: cmdQuit}, nil
	}
	return command{}, fmt.Errorf("unknown command %q, type help", name)
}

// parseForm reads key=value options; the first bare word is the criteria
func parseForm(args []string) (orchestrator.Form, error) {
	var form orchestrator.Form
	criteriaSet := false

	for _, arg := range args {
		key, value, hasValue := strings.Cut(arg, "=")
		switch {
		case !hasValue && strings.EqualFold(key, "available"):
			form.OnlyAvailable = true
		case !hasValue:
			if criteriaSet {
				return form, fmt.Errorf("unexpected argument %q", arg)
			}
			form.Criteria = arg
			criteriaSet = true
		case key == "by":
			field, err := models.ParseSearchField(value)
			if err != nil {
				return form, err
			}
			form.By = field
		case key == "branches":
			for _, b := range strings.Split(value, ",") {
				if b = strings.TrimSpace(b); b != "" {
					form.Branches = append(form.Branches, b)
				}
			}
		case key == "size":
			size, err := strconv.Atoi(value)
			if err != nil || size <= 0 {
				return form, fmt.Errorf("size must be a positive integer")
			}
			form.Size = size
		default:
			return form, fmt.Errorf("unknown option %q", key)
		}
	}
	return form, nil
}

// apply reports whether the console should exit
func (c command) apply(orch *orchestrator.Orchestrator, out io.Writer) (bool, error) {
	switch c.kind {
	case cmdSearch:
		return false, orch.Search(c.form)
	case cmdSort:
		return false, orch.SetSort(c.sort)
	case cmdPage:
		return false, orch.SetPage(c.page)
	case cmdPeak:
		return false, orch.LookupPeak(c.partNumber)
	case cmdState:
		printState(out, orch.State())
	case cmdHelp:
		fmt.Fprintln(out, helpText)
	case cmdQuit:
		return true, nil
	}
	return false, nil
}

func printState(out io.Writer, s orchestrator.State) {
	switch {
	case s.Loading:
		fmt.Fprintf(out, "[#%d] loading...\n", s.Generation)
	case s.Err != "":
		fmt.Fprintf(out, "[#%d] error: %s\n", s.Generation, s.Err)
	}

	if !s.Loading && s.Generation > 0 {
		sort := "default"
		if s.Query.Sort != nil {
			sort = s.Query.Sort.String()
		}
		fmt.Fprintf(out, "[#%d] %d matches, page %d (size %d), sort %s\n",
			s.Generation, s.Total, s.Query.Page, s.Query.Size, sort)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PART\tBRANCH\tAVAILABLE\tUOM\tLEAD\tDESCRIPTION")
		for _, item := range s.Items {
			lead := "-"
			if item.LeadTimeDays != nil {
				lead = strconv.Itoa(*item.LeadTimeDays)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
				item.PartNumber, item.Branch, item.AvailableQty, item.Uom, lead, item.Description)
		}
		w.Flush()
	}

	switch s.Peak.Status {
	case orchestrator.PeakLoading:
		fmt.Fprintf(out, "peak %s: loading...\n", s.Peak.PartNumber)
	case orchestrator.PeakFailed:
		fmt.Fprintf(out, "peak %s: error: %s\n", s.Peak.PartNumber, s.Peak.Err)
	case orchestrator.PeakLoaded:
		res := s.Peak.Result
		fmt.Fprintf(out, "peak %s: %d available\n", s.Peak.PartNumber, res.TotalAvailable)
		for _, b := range res.Branches {
			fmt.Fprintf(out, "  %-6s %d\n", b.Branch, b.Qty)
		}
	}
}
