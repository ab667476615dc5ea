package services

import (
	"fmt"
	"sort"
	"strings"

	"evcharge-pipeline/models"
	"evcharge-pipeline/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(figures []*models.LocalityFigures) *models.InsightReport {
	report := &models.InsightReport{
		LocalitiesByRegion: make(map[string]int),
	}

	if len(figures) == 0 {
		return report
	}

	report.TotalLocalities = len(figures)
	report.MinInstallCost = figures[0].InstallCost
	report.MaxInstallCost = figures[0].InstallCost

	var costTotal int
	for _, f := range figures {
		costTotal += f.InstallCost
		if f.InstallCost < report.MinInstallCost {
			report.MinInstallCost = f.InstallCost
		}
		if f.InstallCost > report.MaxInstallCost {
			report.MaxInstallCost = f.InstallCost
		}
		if report.BestSavings == nil || f.AnnualSavings > report.BestSavings.AnnualSavings {
			report.BestSavings = f
		}
		if f.RegionCode != "" {
			report.LocalitiesByRegion[f.RegionCode]++
		}
	}
	report.AvgInstallCost = round2(float64(costTotal) / float64(len(figures)))

	// Top 5 by annual savings
	ranked := make([]*models.LocalityFigures, len(figures))
	copy(ranked, figures)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].AnnualSavings > ranked[j].AnnualSavings
	})
	if len(ranked) > 5 {
		report.TopSavings = ranked[:5]
	} else {
		report.TopSavings = ranked
	}

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  ⚡ EV CHARGER PIPELINE FIGURES\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Localities computed : \033[1m%d\033[0m\n", r.TotalLocalities)
	fmt.Println()

	// Installation costs
	fmt.Printf("\033[1;33m  Installation Cost\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AvgInstallCost > 0 {
		fmt.Printf("  Average cost : \033[1;32m$%.2f\033[0m\n", r.AvgInstallCost)
		fmt.Printf("  Minimum cost : \033[1;32m$%d\033[0m\n", r.MinInstallCost)
		fmt.Printf("  Maximum cost : \033[1;32m$%d\033[0m\n", r.MaxInstallCost)
	} else {
		fmt.Printf("  No cost data available\n")
	}
	fmt.Println()

	// Best annual savings
	if r.BestSavings != nil {
		fmt.Printf("\033[1;33m  Highest Annual Savings\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.BestSavings.Name, 50))
		fmt.Printf("  Region  : %s\n", r.BestSavings.RegionCode)
		fmt.Printf("  Savings : \033[1;31m$%.2f/year\033[0m\n", r.BestSavings.AnnualSavings)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Top 5 Localities by Annual Savings\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopSavings) == 0 {
		fmt.Printf("  No figures computed\n")
	} else {
		for i, f := range r.TopSavings {
			name := truncate(f.Name, 38)
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m$%.2f\033[0m\n",
				i+1, name, f.AnnualSavings)
		}
	}
	fmt.Println()

	// Localities by region
	fmt.Printf("\033[1;33m  Localities by Region\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.LocalitiesByRegion) == 0 {
		fmt.Printf("  No region data\n")
	} else {
		type regionCount struct {
			region string
			count  int
		}
		var regions []regionCount
		for region, cnt := range r.LocalitiesByRegion {
			regions = append(regions, regionCount{region, cnt})
		}
		sort.Slice(regions, func(i, j int) bool {
			if regions[i].count != regions[j].count {
				return regions[i].count > regions[j].count
			}
			return regions[i].region < regions[j].region
		})
		for _, rc := range regions {
			bar := strings.Repeat("█", rc.count)
			fmt.Printf("  %-10s %s (%d)\n", rc.region, bar, rc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
