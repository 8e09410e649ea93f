package db

type Database interface {
	Experiments() ExperimentService
	History() HistoryService
}

type database struct {
	experiments ExperimentService
	history     HistoryService
}

func NewDatabase(experiments ExperimentService, history HistoryService) Database {
	return &database{
		experiments: experiments,
		history:     history,
	}
}

func (db *database) Experiments() ExperimentService {
	return db.experiments
}

func (db *database) History() HistoryService {
	return db.history
}
